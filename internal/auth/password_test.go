package auth_test

import (
	"github.com/publica-project/publica/internal/auth"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PasswordHasher", func() {
	var hasher *auth.PasswordHasher

	BeforeEach(func() {
		hasher = auth.NewPasswordHasher(1000)
	})

	It("should verify the password used to create the hash", func() {
		salt, hash, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())
		Expect(hasher.Verify("qwerty", salt, hash)).To(BeTrue())
	})

	It("should reject any other password", func() {
		salt, hash, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())
		Expect(hasher.Verify("qwertz", salt, hash)).To(BeFalse())
		Expect(hasher.Verify("", salt, hash)).To(BeFalse())
	})

	It("should rotate the salt on every set", func() {
		salt1, hash1, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())
		salt2, hash2, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())

		Expect(salt1).NotTo(Equal(salt2))
		Expect(hash1).NotTo(Equal(hash2))
	})

	It("should derive deterministically for a fixed salt", func() {
		salt, hash, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())

		// same plaintext and salt always produce the same hash
		Expect(hasher.Verify("qwerty", salt, hash)).To(BeTrue())
		Expect(hasher.Verify("qwerty", salt, hash)).To(BeTrue())
	})

	It("should use a salt of at least 16 bytes", func() {
		salt, _, err := hasher.Generate("qwerty")
		Expect(err).NotTo(HaveOccurred())
		// hex encoded, so two characters per byte
		Expect(len(salt)).To(BeNumerically(">=", 32))
	})
})
