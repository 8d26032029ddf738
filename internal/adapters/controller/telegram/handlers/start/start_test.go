package start

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("link codes", func() {
	DescribeTable("reading the code from the start payload",
		func(payload, code string) {
			Expect(linkCode(payload)).To(Equal(code))
		},
		Entry("deep link", "link_12345678", "12345678"),
		Entry("bare code", " 12345678 ", "12345678"),
		Entry("no payload", "", ""),
	)

	DescribeTable("recognising a typed code",
		func(text string, ok bool) {
			Expect(isCode(text)).To(Equal(ok))
		},
		Entry("eight digits", "12345678", true),
		Entry("too short", "1234567", false),
		Entry("letters", "1234567a", false),
		Entry("a greeting", "hello there", false),
	)
})
