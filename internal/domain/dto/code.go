package dto

// Code is a one-time code with the context it was issued for.
type Code struct {
	Code        string
	CodeContext string
}
