package status_test

import (
	"wagondepot/bizerror"
	"wagondepot/domain/status"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Initialize", func() {
	It("should create one PENDING entry per work group, order preserved", func() {
		Expect(status.Initialize([]string{"paint", "wheels", "brakes"})).To(Equal(status.GroupStatuses{
			{Value: "paint", Status: status.WorkStatusPending},
			{Value: "wheels", Status: status.WorkStatusPending},
			{Value: "brakes", Status: status.WorkStatusPending},
		}))
	})

	It("should yield an empty vector for empty input", func() {
		Expect(status.Initialize(nil)).To(Equal(status.GroupStatuses{}))
		Expect(status.Initialize([]string{})).To(Equal(status.GroupStatuses{}))
	})

	It("should derive NOT_STARTED directly after initialization", func() {
		Expect(status.Derive(status.Initialize(nil))).To(Equal(status.WagonStatusNotStarted))
		Expect(status.Derive(status.Initialize([]string{"paint", "wheels"}))).To(Equal(status.WagonStatusNotStarted))
	})
})

var _ = Describe("Derive", func() {
	It("should be NOT_STARTED for an empty vector", func() {
		Expect(status.Derive(status.GroupStatuses{})).To(Equal(status.WagonStatusNotStarted))
		Expect(status.Derive(nil)).To(Equal(status.WagonStatusNotStarted))
	})

	It("should be NOT_STARTED when every entry is PENDING", func() {
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusPending},
			{Value: "b", Status: status.WorkStatusPending},
		})).To(Equal(status.WagonStatusNotStarted))
	})

	It("should be DONE when every entry is DONE", func() {
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusDone},
			{Value: "b", Status: status.WorkStatusDone},
		})).To(Equal(status.WagonStatusDone))
	})

	It("should be IN_PROGRESS when any entry is IN_PROGRESS", func() {
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusDone},
			{Value: "b", Status: status.WorkStatusInProgress},
		})).To(Equal(status.WagonStatusInProgress))

		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusPending},
			{Value: "b", Status: status.WorkStatusInProgress},
		})).To(Equal(status.WagonStatusInProgress))
	})

	It("should check all-DONE before any-IN_PROGRESS", func() {
		// a single DONE entry is all-DONE, never IN_PROGRESS
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusDone},
		})).To(Equal(status.WagonStatusDone))
	})

	It("should fall back to NOT_STARTED for mixed PENDING/DONE without IN_PROGRESS", func() {
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusPending},
			{Value: "b", Status: status.WorkStatusDone},
		})).To(Equal(status.WagonStatusNotStarted))
	})

	It("should stay total for unrecognized statuses", func() {
		Expect(status.Derive(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatus("Готово")},
			{Value: "b", Status: status.WorkStatusPending},
		})).To(Equal(status.WagonStatusNotStarted))
	})
})

var _ = Describe("ApplyPatch", func() {
	var current status.GroupStatuses

	BeforeEach(func() {
		current = status.GroupStatuses{
			{Value: "paint", Status: status.WorkStatusPending},
			{Value: "wheels", Status: status.WorkStatusInProgress},
			{Value: "brakes", Status: status.WorkStatusPending},
		}
	})

	It("should replace the status of matching entries only", func() {
		patched := status.ApplyPatch(current, status.GroupStatuses{{Value: "paint", Status: status.WorkStatusDone}})
		Expect(patched).To(Equal(status.GroupStatuses{
			{Value: "paint", Status: status.WorkStatusDone},
			{Value: "wheels", Status: status.WorkStatusInProgress},
			{Value: "brakes", Status: status.WorkStatusPending},
		}))
	})

	It("should ignore patch entries without a matching value", func() {
		patched := status.ApplyPatch(current, status.GroupStatuses{
			{Value: "bogies", Status: status.WorkStatusDone},
		})
		Expect(patched).To(Equal(current))
	})

	It("should never change length or membership of the current vector", func() {
		patched := status.ApplyPatch(current, status.GroupStatuses{
			{Value: "paint", Status: status.WorkStatusDone},
			{Value: "bogies", Status: status.WorkStatusDone},
			{Value: "couplers", Status: status.WorkStatusInProgress},
		})
		Expect(len(patched)).To(Equal(len(current)))
		for i := range patched {
			Expect(patched[i].Value).To(Equal(current[i].Value))
		}
	})

	It("should be idempotent", func() {
		patch := status.GroupStatuses{
			{Value: "wheels", Status: status.WorkStatusDone},
			{Value: "brakes", Status: status.WorkStatusInProgress},
		}
		once := status.ApplyPatch(current, patch)
		twice := status.ApplyPatch(once, patch)
		Expect(twice).To(Equal(once))
	})

	It("should return current unchanged for an empty patch", func() {
		Expect(status.ApplyPatch(current, nil)).To(Equal(current))
		Expect(status.ApplyPatch(current, status.GroupStatuses{})).To(Equal(current))
	})
})

var _ = Describe("Validate", func() {
	It("should accept all closed-enum members", func() {
		Expect(status.Validate(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatusPending},
			{Value: "b", Status: status.WorkStatusInProgress},
			{Value: "c", Status: status.WorkStatusDone},
		})).To(BeNil())
		Expect(status.Validate(nil)).To(BeNil())
	})

	It("should reject statuses outside the closed enum", func() {
		Expect(status.Validate(status.GroupStatuses{
			{Value: "a", Status: status.WorkStatus("done")},
		})).To(Equal(bizerror.ErrUnknownWorkStatus))
	})
})
