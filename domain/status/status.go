package status

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"wagondepot/bizerror"
)

// WorkStatus is the status of a single work group within a wagon record.
type WorkStatus string

const (
	WorkStatusPending    = WorkStatus("PENDING")
	WorkStatusInProgress = WorkStatus("IN_PROGRESS")
	WorkStatusDone       = WorkStatus("DONE")
)

// WagonStatus is the aggregate status of a wagon record, derived from the
// statuses of all of its work groups.
type WagonStatus string

const (
	WagonStatusNotStarted = WagonStatus("NOT_STARTED")
	WagonStatusInProgress = WagonStatus("IN_PROGRESS")
	WagonStatusDone       = WagonStatus("DONE")
)

func (s WorkStatus) IsValid() bool {
	return s == WorkStatusPending || s == WorkStatusInProgress || s == WorkStatusDone
}

func (s WagonStatus) IsValid() bool {
	return s == WagonStatusNotStarted || s == WagonStatusInProgress || s == WagonStatusDone
}

type GroupStatus struct {
	Value  string     `json:"value"`
	Status WorkStatus `json:"status"`
}

type GroupStatuses []GroupStatus

// Initialize builds the status vector for a new wagon record: one PENDING
// entry per declared work group, order preserved.
func Initialize(workGroups []string) GroupStatuses {
	r := GroupStatuses{}
	for _, g := range workGroups {
		r = append(r, GroupStatus{Value: g, Status: WorkStatusPending})
	}
	return r
}

// ApplyPatch merges a sparse, value-keyed patch into the current vector.
// Entries of current with a matching patch value take the patch status;
// all others are kept unchanged. Patch entries whose value does not exist in
// current are ignored: the set of trackable groups is fixed at creation time.
func ApplyPatch(current GroupStatuses, patch GroupStatuses) GroupStatuses {
	if len(patch) == 0 {
		return current
	}
	patched := make(map[string]WorkStatus, len(patch))
	for _, p := range patch {
		patched[p.Value] = p.Status
	}
	r := make(GroupStatuses, 0, len(current))
	for _, g := range current {
		if s, found := patched[g.Value]; found {
			g.Status = s
		}
		r = append(r, g)
	}
	return r
}

// Derive computes the aggregate wagon status. The all-DONE check runs before
// the any-IN_PROGRESS check so a fully complete vector never reports
// IN_PROGRESS; a mixed PENDING/DONE vector without any IN_PROGRESS entry
// falls back to NOT_STARTED. Total: defined for every input, never errors.
func Derive(statuses GroupStatuses) WagonStatus {
	if len(statuses) == 0 {
		return WagonStatusNotStarted
	}

	allDone := true
	anyInProgress := false
	for _, g := range statuses {
		if g.Status != WorkStatusDone {
			allDone = false
		}
		if g.Status == WorkStatusInProgress {
			anyInProgress = true
		}
	}

	if allDone {
		return WagonStatusDone
	}
	if anyInProgress {
		return WagonStatusInProgress
	}
	return WagonStatusNotStarted
}

// Validate rejects vectors carrying a status outside the closed enum. It is
// applied at the request boundary so that unrecognized inbound values fail
// loudly instead of silently deriving to NOT_STARTED.
func Validate(statuses GroupStatuses) error {
	for _, g := range statuses {
		if !g.Status.IsValid() {
			return bizerror.ErrUnknownWorkStatus
		}
	}
	return nil
}

func (t GroupStatuses) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *GroupStatuses) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), c)
}
