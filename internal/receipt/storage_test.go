package receipt

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	// Filenames mirror what ProcessUpload writes: receipt ID prefix,
	// underscore, sanitized original name
	const (
		uploadName = "8f14e45f-ceea-467f-a8cb-3f0a9d5f2b10_walmart receipt.jpg"
		jpegBytes  = "\xff\xd8\xfffake walmart receipt scan"
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			savedPath string
			err       error
		)

		JustBeforeEach(func() {
			savedPath, err = storage.Save(uploadName, []byte(jpegBytes))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the path later lookups use", func() {
				Expect(savedPath).To(Equal(uploadName))
			})

			It("should write the receipt image to disk", func() {
				Expect(filepath.Join(tmpDir, uploadName)).To(BeAnExistingFile())
			})
		})

		When("a second receipt is uploaded", func() {
			It("should keep both files", func() {
				otherName := "d3b07384-d9a0-4c2b-9f15-2f8e7a6c1e42_costco.pdf"
				_, saveErr := storage.Save(otherName, []byte("%PDF-1.4 fake"))
				Expect(saveErr).NotTo(HaveOccurred())

				first, getErr := storage.Get(uploadName)
				Expect(getErr).NotTo(HaveOccurred())
				Expect(string(first)).To(Equal(jpegBytes))
				Expect(filepath.Join(tmpDir, otherName)).To(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		var (
			path string
			data []byte
			err  error
		)

		JustBeforeEach(func() {
			data, err = storage.Get(path)
		})

		When("the receipt file exists", func() {
			BeforeEach(func() {
				path = uploadName
				_, saveErr := storage.Save(uploadName, []byte(jpegBytes))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the receipt image bytes", func() {
				Expect(string(data)).To(Equal(jpegBytes))
			})
		})

		When("the receipt file does not exist", func() {
			BeforeEach(func() {
				path = "no-such-id_receipt.jpg"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("reading file"))
			})
		})
	})

	Describe("Delete", func() {
		var (
			path string
			err  error
		)

		JustBeforeEach(func() {
			err = storage.Delete(path)
		})

		When("the receipt file exists", func() {
			BeforeEach(func() {
				path = uploadName
				_, saveErr := storage.Save(uploadName, []byte(jpegBytes))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the file from disk", func() {
				Expect(filepath.Join(tmpDir, uploadName)).NotTo(BeAnExistingFile())
			})

			It("should make the file inaccessible via Get", func() {
				_, getErr := storage.Get(uploadName)
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the receipt file does not exist", func() {
			BeforeEach(func() {
				path = "no-such-id_receipt.jpg"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("deleting file"))
			})
		})
	})

	Describe("NewLocalStorage", func() {
		var (
			storagePath string
			storage     Storage
			err         error
		)

		JustBeforeEach(func() {
			storage, err = NewLocalStorage(storagePath)
		})

		When("the directory does not exist yet", func() {
			BeforeEach(func() {
				storagePath = filepath.Join(GinkgoT().TempDir(), "receipts")
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should create the directory", func() {
				Expect(storagePath).To(BeADirectory())
			})

			It("should allow saving receipt files", func() {
				_, saveErr := storage.Save(uploadName, []byte(jpegBytes))
				Expect(saveErr).NotTo(HaveOccurred())
			})
		})

		When("the directory already exists", func() {
			BeforeEach(func() {
				storagePath = GinkgoT().TempDir()
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should allow saving receipt files", func() {
				_, saveErr := storage.Save(uploadName, []byte(jpegBytes))
				Expect(saveErr).NotTo(HaveOccurred())
			})
		})
	})
})
