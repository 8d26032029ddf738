package codes_test

import (
	"context"
	"time"

	"github.com/Badsnus/campus-events/internal/adapters/database/redis/codes"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("Storage", func() {
	var (
		ctx     context.Context
		server  *miniredis.Miniredis
		storage *codes.Storage
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		server, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(server.Close)

		storage = codes.NewStorage(redis.NewClient(&redis.Options{Addr: server.Addr()}))
		DeferCleanup(storage.Close)
	})

	It("returns the code with its context", func() {
		Expect(storage.Set(ctx, "telegram", "123456", "123456", "user-1", 10*time.Minute)).To(Succeed())

		code, err := storage.Get(ctx, "telegram", "123456")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(dto.Code{Code: "123456", CodeContext: "user-1"}))
	})

	It("keeps prefixes apart", func() {
		Expect(storage.Set(ctx, "reset", "a@campus.edu", "111111", "", time.Minute)).To(Succeed())

		code, err := storage.Get(ctx, "telegram", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(BeZero())
	})

	It("forgets expired and cleared codes", func() {
		Expect(storage.Set(ctx, "reset", "a@campus.edu", "111111", "", time.Minute)).To(Succeed())
		server.FastForward(2 * time.Minute)

		code, err := storage.Get(ctx, "reset", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(code.Code).To(BeEmpty())

		Expect(storage.Set(ctx, "reset", "a@campus.edu", "222222", "", time.Minute)).To(Succeed())
		Expect(storage.Clear(ctx, "reset", "a@campus.edu")).To(Succeed())
		code, err = storage.Get(ctx, "reset", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(code.Code).To(BeEmpty())
	})

	It("rejects malformed values", func() {
		server.Set("reset:a@campus.edu", "a:b:c")

		_, err := storage.Get(ctx, "reset", "a@campus.edu")
		Expect(err).To(MatchError(errorz.ErrInvalidCode))
	})

	It("counts attempts within a window", func() {
		attempts, err := storage.Attempts(ctx, "reset_attempts", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(attempts).To(BeZero())

		for want := int64(1); want <= 3; want++ {
			attempts, err = storage.Attempt(ctx, "reset_attempts", "a@campus.edu", time.Minute)
			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(Equal(want))
		}
		attempts, err = storage.Attempts(ctx, "reset_attempts", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(attempts).To(Equal(int64(3)))

		server.FastForward(2 * time.Minute)
		attempts, err = storage.Attempts(ctx, "reset_attempts", "a@campus.edu")
		Expect(err).NotTo(HaveOccurred())
		Expect(attempts).To(BeZero())
	})
})
