package approval

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	appctx "gims/internal/core/context"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
	"gims/internal/domain/catalogs/stockitem"
	"gims/internal/domain/documents/issue"
	"gims/internal/domain/documents/receive"
	"gims/internal/domain/documents/request"
	"gims/internal/domain/documents/rrp"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingAuditor struct {
	entries []AuditEntry
}

func (a *recordingAuditor) Record(_ context.Context, entry AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

// --- in-memory repositories ---

type requestStore struct {
	byID map[id.ID]*request.Request
}

func (s *requestStore) Create(_ context.Context, req *request.Request) error {
	s.byID[req.ID] = req
	return nil
}

func (s *requestStore) GetByID(_ context.Context, reqID id.ID) (*request.Request, error) {
	req, ok := s.byID[reqID]
	if !ok {
		return nil, apperror.NewNotFound("request", reqID)
	}
	return req, nil
}

func (s *requestStore) Update(_ context.Context, req *request.Request) error {
	s.byID[req.ID] = req
	return nil
}

func (s *requestStore) Delete(_ context.Context, reqID id.ID) error {
	delete(s.byID, reqID)
	return nil
}

func (s *requestStore) List(_ context.Context, _ request.ListFilter) (domain.ListResult[*request.ListItem], error) {
	return domain.ListResult[*request.ListItem]{}, nil
}

func (s *requestStore) GetForUpdate(ctx context.Context, reqID id.ID) (*request.Request, error) {
	return s.GetByID(ctx, reqID)
}

func (s *requestStore) ApprovedReceivedSum(_ context.Context, _ id.ID) (types.Quantity, error) {
	return 0, nil
}

func (s *requestStore) MarkReceived(_ context.Context, reqID id.ID, receiveID id.ID) error {
	req := s.byID[reqID]
	req.IsReceived = true
	req.ReceiveFk = &receiveID
	return nil
}

func (s *requestStore) SetApprovalStatus(_ context.Context, reqID id.ID, status string) error {
	s.byID[reqID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

type receiveStore struct {
	byID map[id.ID]*receive.Receive
}

func (s *receiveStore) Create(_ context.Context, rcv *receive.Receive) error {
	s.byID[rcv.ID] = rcv
	return nil
}

func (s *receiveStore) GetByID(_ context.Context, rcvID id.ID) (*receive.Receive, error) {
	rcv, ok := s.byID[rcvID]
	if !ok {
		return nil, apperror.NewNotFound("receive", rcvID)
	}
	return rcv, nil
}

func (s *receiveStore) Update(_ context.Context, rcv *receive.Receive) error {
	s.byID[rcv.ID] = rcv
	return nil
}

func (s *receiveStore) Delete(_ context.Context, rcvID id.ID) error {
	delete(s.byID, rcvID)
	return nil
}

func (s *receiveStore) List(_ context.Context, _ receive.ListFilter) (domain.ListResult[*receive.Receive], error) {
	return domain.ListResult[*receive.Receive]{}, nil
}

func (s *receiveStore) ListByRequest(_ context.Context, _ id.ID) ([]*receive.Receive, error) {
	return nil, nil
}

func (s *receiveStore) GetForUpdate(ctx context.Context, rcvID id.ID) (*receive.Receive, error) {
	return s.GetByID(ctx, rcvID)
}

func (s *receiveStore) SetApprovalStatus(_ context.Context, rcvID id.ID, status string) error {
	s.byID[rcvID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

func (s *receiveStore) SetBorrowStatus(_ context.Context, rcvID id.ID, status string) error {
	st := entity.BorrowStatus(status)
	s.byID[rcvID].BorrowStatus = &st
	return nil
}

type issueStore struct {
	byID map[id.ID]*issue.Issue
}

func (s *issueStore) Create(_ context.Context, iss *issue.Issue) error {
	s.byID[iss.ID] = iss
	return nil
}

func (s *issueStore) GetByID(_ context.Context, issID id.ID) (*issue.Issue, error) {
	iss, ok := s.byID[issID]
	if !ok {
		return nil, apperror.NewNotFound("issue", issID)
	}
	return iss, nil
}

func (s *issueStore) Update(_ context.Context, iss *issue.Issue) error {
	s.byID[iss.ID] = iss
	return nil
}

func (s *issueStore) Delete(_ context.Context, issID id.ID) error {
	delete(s.byID, issID)
	return nil
}

func (s *issueStore) List(_ context.Context, _ issue.ListFilter) (domain.ListResult[*issue.Issue], error) {
	return domain.ListResult[*issue.Issue]{}, nil
}

func (s *issueStore) GetForUpdate(ctx context.Context, issID id.ID) (*issue.Issue, error) {
	return s.GetByID(ctx, issID)
}

func (s *issueStore) SetApprovalStatus(_ context.Context, issID id.ID, status string) error {
	s.byID[issID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

type rrpStore struct {
	lines map[id.ID]*rrp.Line
}

func (s *rrpStore) Create(_ context.Context, _ *rrp.Header) error { return nil }
func (s *rrpStore) Update(_ context.Context, _ *rrp.Header) error { return nil }
func (s *rrpStore) Delete(_ context.Context, _ id.ID) error       { return nil }

func (s *rrpStore) GetByID(_ context.Context, headerID id.ID) (*rrp.Header, error) {
	return nil, apperror.NewNotFound("rrp", headerID)
}

func (s *rrpStore) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*rrp.Header], error) {
	return domain.ListResult[*rrp.Header]{}, nil
}

func (s *rrpStore) ExistsByNumber(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (s *rrpStore) GetLineForUpdate(_ context.Context, lineID id.ID) (*rrp.Line, error) {
	line, ok := s.lines[lineID]
	if !ok {
		return nil, apperror.NewNotFound("rrp line", lineID)
	}
	return line, nil
}

func (s *rrpStore) SetLineApprovalStatus(_ context.Context, lineID id.ID, status string) error {
	s.lines[lineID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

type stockStore struct {
	byNac map[string]*stockitem.StockItem
}

func (s *stockStore) Create(_ context.Context, item *stockitem.StockItem) error {
	s.byNac[item.NacCode] = item
	return nil
}

func (s *stockStore) GetByID(_ context.Context, itemID id.ID) (*stockitem.StockItem, error) {
	return nil, apperror.NewNotFound("stock item", itemID)
}

func (s *stockStore) GetByNacCode(_ context.Context, nacCode string) (*stockitem.StockItem, error) {
	item, ok := s.byNac[nacCode]
	if !ok {
		return nil, apperror.NewNotFound("stock item", nacCode)
	}
	return item, nil
}

func (s *stockStore) Update(_ context.Context, item *stockitem.StockItem) error {
	s.byNac[item.NacCode] = item
	return nil
}

func (s *stockStore) SetActive(_ context.Context, _ id.ID, _ bool) error { return nil }

func (s *stockStore) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*stockitem.StockItem], error) {
	return domain.ListResult[*stockitem.StockItem]{}, nil
}

func (s *stockStore) ExistsByNacCode(_ context.Context, nacCode string) (bool, error) {
	_, ok := s.byNac[nacCode]
	return ok, nil
}

func (s *stockStore) GetForUpdateByNacCode(ctx context.Context, nacCode string) (*stockitem.StockItem, error) {
	return s.GetByNacCode(ctx, nacCode)
}

func (s *stockStore) AdjustBalance(_ context.Context, nacCode string, delta types.Quantity) error {
	s.byNac[nacCode].CurrentBalance += delta
	return nil
}

// --- fixture ---

type fixture struct {
	engine   *Engine
	requests *requestStore
	receives *receiveStore
	issues   *issueStore
	rrps     *rrpStore
	stock    *stockStore
	audit    *recordingAuditor
}

func newFixture() *fixture {
	f := &fixture{
		requests: &requestStore{byID: make(map[id.ID]*request.Request)},
		receives: &receiveStore{byID: make(map[id.ID]*receive.Receive)},
		issues:   &issueStore{byID: make(map[id.ID]*issue.Issue)},
		rrps:     &rrpStore{lines: make(map[id.ID]*rrp.Line)},
		stock:    &stockStore{byNac: make(map[string]*stockitem.StockItem)},
		audit:    &recordingAuditor{},
	}
	f.engine = NewEngine(f.requests, f.receives, f.issues, f.rrps, f.stock, fakeTxManager{}, f.audit)
	return f
}

func (f *fixture) addStock(nacCode string, balance string) *stockitem.StockItem {
	item := stockitem.NewStockItem(nacCode, "Test item")
	item.CurrentBalance, _ = types.NewQuantityFromString(balance)
	f.stock.byNac[nacCode] = item
	return item
}

func (f *fixture) addRequest(nacCode string) *request.Request {
	req := request.NewRequest()
	req.RequestNumber = "REQ-2026-00042"
	req.NacCode = nacCode
	f.requests.byID[req.ID] = req
	return req
}

func (f *fixture) addReceive(requestFk id.ID, qty string) *receive.Receive {
	rcv := receive.NewReceive(requestFk, receive.SourcePurchase)
	rcv.ReceiveDate = time.Now().UTC()
	rcv.ReceivedQuantity, _ = types.NewQuantityFromString(qty)
	f.receives.byID[rcv.ID] = rcv
	return rcv
}

func (f *fixture) addIssue(nacCode, qty string) *issue.Issue {
	iss := issue.NewIssue()
	iss.IssueNumber = "ISS-2026-00007"
	iss.NacCode = nacCode
	iss.IssuedQuantity, _ = types.NewQuantityFromString(qty)
	f.issues.byID[iss.ID] = iss
	return iss
}

// --- tests ---

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	req := f.addRequest("GT04552")

	require.NoError(t, f.engine.ApproveRequest(ctx, req.ID))
	assert.Equal(t, entity.ApprovalApproved, req.ApprovalStatus)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, EntityRequest, f.audit.entries[0].EntityType)
	assert.Equal(t, ActionApprove, f.audit.entries[0].Action)
}

func TestApproveRequest_AlreadyDecided(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	req := f.addRequest("GT04552")
	req.ApprovalStatus = entity.ApprovalRejected

	err := f.engine.ApproveRequest(ctx, req.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyDecided, appErr.Code)
	assert.Empty(t, f.audit.entries, "no audit entry for a refused transition")
}

func TestApproveReceive_SideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addStock("GT04552", "10")
	req := f.addRequest("GT04552")
	rcv := f.addReceive(req.ID, "4")

	require.NoError(t, f.engine.ApproveReceive(ctx, rcv.ID))

	assert.Equal(t, entity.ApprovalApproved, rcv.ApprovalStatus)
	assert.Equal(t, "14.0000", f.stock.byNac["GT04552"].CurrentBalance.String())
	assert.True(t, req.IsReceived)
	require.NotNil(t, req.ReceiveFk)
	assert.Equal(t, rcv.ID, *req.ReceiveFk)

	require.Len(t, f.audit.entries, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(f.audit.entries[0].Payload, &payload))
	assert.Equal(t, "GT04552", payload["nacCode"])
	assert.Equal(t, "14.0000", payload["balanceAfter"])
}

func TestRejectReceive_NoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addStock("GT04552", "10")
	req := f.addRequest("GT04552")
	rcv := f.addReceive(req.ID, "4")

	require.NoError(t, f.engine.RejectReceive(ctx, rcv.ID))

	assert.Equal(t, entity.ApprovalRejected, rcv.ApprovalStatus)
	assert.Equal(t, "10.0000", f.stock.byNac["GT04552"].CurrentBalance.String())
	assert.False(t, req.IsReceived)
}

func TestApproveIssue_DecrementsBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addStock("GT04552", "10")
	iss := f.addIssue("GT04552", "3")

	require.NoError(t, f.engine.ApproveIssue(ctx, iss.ID))

	assert.Equal(t, entity.ApprovalApproved, iss.ApprovalStatus)
	assert.Equal(t, "7.0000", f.stock.byNac["GT04552"].CurrentBalance.String())
}

func TestApproveIssue_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addStock("GT04552", "2")
	iss := f.addIssue("GT04552", "3")

	err := f.engine.ApproveIssue(ctx, iss.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// Nothing moved.
	assert.Equal(t, entity.ApprovalPending, iss.ApprovalStatus)
	assert.Equal(t, "2.0000", f.stock.byNac["GT04552"].CurrentBalance.String())
	assert.Empty(t, f.audit.entries)
}

func TestApproveIssue_ExactBalanceAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.addStock("GT04552", "3")
	iss := f.addIssue("GT04552", "3")

	require.NoError(t, f.engine.ApproveIssue(ctx, iss.ID))
	assert.True(t, f.stock.byNac["GT04552"].CurrentBalance.IsZero())
}

func TestRRPLineTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	line := rrp.NewLine(id.New())
	f.rrps.lines[line.ID] = line

	require.NoError(t, f.engine.ApproveRRPLine(ctx, line.ID))
	assert.Equal(t, entity.ApprovalApproved, line.ApprovalStatus)

	err := f.engine.RejectRRPLine(ctx, line.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyDecided, appErr.Code)
}

func TestBorrowReturnFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	req := f.addRequest("GT04552")

	rcv := receive.NewReceive(req.ID, receive.SourceBorrow)
	f.receives.byID[rcv.ID] = rcv

	// ACTIVE borrow has no pending return to approve.
	err := f.engine.ApproveBorrowReturn(ctx, rcv.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBorrowNotActive, appErr.Code)

	pending := entity.BorrowReturnPending
	rcv.BorrowStatus = &pending

	// Rejecting reopens the loan.
	require.NoError(t, f.engine.RejectBorrowReturn(ctx, rcv.ID))
	assert.Equal(t, entity.BorrowActive, *rcv.BorrowStatus)

	rcv.BorrowStatus = &pending
	require.NoError(t, f.engine.ApproveBorrowReturn(ctx, rcv.ID))
	assert.Equal(t, entity.BorrowReturned, *rcv.BorrowStatus)
}

func TestAudit_CarriesActor(t *testing.T) {
	f := newFixture()
	req := f.addRequest("GT04552")

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New().String(),
		Email:  "inspector@example.com",
	})

	require.NoError(t, f.engine.ApproveRequest(ctx, req.ID))
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "inspector@example.com", f.audit.entries[0].Actor)
}
