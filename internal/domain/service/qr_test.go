package service_test

import (
	"github.com/Badsnus/campus-events/internal/domain/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ticket content", func() {
	It("round trips event and code", func() {
		eventID, code, ok := service.ParseTicketContent(service.TicketContent("event-1", "code-1"))
		Expect(ok).To(BeTrue())
		Expect(eventID).To(Equal("event-1"))
		Expect(code).To(Equal("code-1"))
	})

	DescribeTable("rejects foreign payloads",
		func(content string) {
			_, _, ok := service.ParseTicketContent(content)
			Expect(ok).To(BeFalse())
		},
		Entry("bare code", "4f1c2c9e"),
		Entry("missing code", "campus-events:ticket:event-1:"),
		Entry("missing separator", "campus-events:ticket:event-1"),
		Entry("other prefix", "https://example.com/ticket"),
	)
})
