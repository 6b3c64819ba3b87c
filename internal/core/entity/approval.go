package entity

// ApprovalStatus is the lifecycle state shared by requests, receives,
// issues and RRP lines.
//
// PENDING is the only non-terminal state; APPROVED and REJECTED are
// terminal on either branch.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Valid reports whether s is a known approval status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s ApprovalStatus) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// BorrowStatus tracks the loan state of a borrow receive.
// Returning is a separately approved transition, so a pending state sits
// between ACTIVE and RETURNED.
type BorrowStatus string

const (
	BorrowActive        BorrowStatus = "ACTIVE"
	BorrowReturnPending BorrowStatus = "RETURN_PENDING"
	BorrowReturned      BorrowStatus = "RETURNED"
)

// Valid reports whether s is a known borrow status.
func (s BorrowStatus) Valid() bool {
	switch s {
	case BorrowActive, BorrowReturnPending, BorrowReturned:
		return true
	}
	return false
}

// Outstanding reports whether the loan still counts against its source.
// REJECTED receives are excluded separately by the caller.
func (s BorrowStatus) Outstanding() bool {
	return s == BorrowActive || s == BorrowReturnPending
}
