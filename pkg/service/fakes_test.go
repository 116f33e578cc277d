package service

import (
	"database/sql"
	"fmt"
	"sync"

	"spv_captable_back/models"
	"spv_captable_back/pkg/docs"
	"spv_captable_back/pkg/repository"
)

// In-memory repositories so the state machine is exercised without a
// database. They mirror the Postgres implementations' contracts, including
// sql.ErrNoRows for missing rows.

type fakeTransferRepo struct {
	mu             sync.Mutex
	nextID         int64
	rows           map[int64]models.Transfer
	history        *fakeHistoryRepo
	documents      *fakeDocumentRepo
	failTransition bool
}

func newFakeTransferRepo(history *fakeHistoryRepo, documents *fakeDocumentRepo) *fakeTransferRepo {
	return &fakeTransferRepo{
		rows:      make(map[int64]models.Transfer),
		history:   history,
		documents: documents,
	}
}

func (r *fakeTransferRepo) Create(t *models.Transfer, history *models.TransferHistoryRecord) error {
	r.mu.Lock()
	r.nextID++
	t.ID = r.nextID
	r.rows[t.ID] = *t
	r.mu.Unlock()

	history.TransferID = t.ID
	_, err := r.history.Record(history)
	return err
}

func (r *fakeTransferRepo) GetByPublicID(publicID string) (models.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.PublicID == publicID {
			return t, nil
		}
	}
	return models.Transfer{}, sql.ErrNoRows
}

// ApplyTransition is all or nothing like the SQL implementation: a simulated
// failure happens before any of the bundled rows are touched.
func (r *fakeTransferRepo) ApplyTransition(t *models.Transfer, write repository.TransitionWrite) error {
	r.mu.Lock()
	if r.failTransition {
		r.mu.Unlock()
		return fmt.Errorf("transition write failed")
	}
	if _, ok := r.rows[t.ID]; !ok {
		r.mu.Unlock()
		return sql.ErrNoRows
	}
	r.rows[t.ID] = *t
	r.mu.Unlock()

	if write.SupersedeDocuments {
		if err := r.documents.SupersedeAll(t.ID); err != nil {
			return err
		}
	}
	if write.Document != nil {
		if _, err := r.documents.Create(write.Document); err != nil {
			return err
		}
	}
	_, err := r.history.Record(write.History)
	return err
}

func (r *fakeTransferRepo) ListByInvestor(investorID int64) ([]models.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transfer
	for _, t := range r.rows {
		if t.RequesterID == investorID || t.RecipientID == investorID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct {
	mu        sync.Mutex
	nextID    int64
	entries   []models.OwnershipLedgerEntry
	history   *fakeHistoryRepo
	transfer  *fakeTransferRepo
	documents *fakeDocumentRepo
}

func newFakeLedgerRepo(history *fakeHistoryRepo, transfer *fakeTransferRepo, documents *fakeDocumentRepo) *fakeLedgerRepo {
	return &fakeLedgerRepo{history: history, transfer: transfer, documents: documents}
}

func (r *fakeLedgerRepo) LatestEntry(investorID, vehicleID int64) (*models.OwnershipLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.InvestorID == investorID && e.VehicleID == vehicleID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) LatestEntries(vehicleID int64) ([]models.OwnershipLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[int64]models.OwnershipLedgerEntry)
	for _, e := range r.entries {
		if e.VehicleID == vehicleID {
			latest[e.InvestorID] = e
		}
	}
	out := make([]models.OwnershipLedgerEntry, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeLedgerRepo) Chain(investorID, vehicleID int64) ([]models.OwnershipLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OwnershipLedgerEntry
	for _, e := range r.entries {
		if e.InvestorID == investorID && e.VehicleID == vehicleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) CapTable(vehicleID int64) ([]models.CapTableRow, error) {
	latest, err := r.LatestEntries(vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]models.CapTableRow, 0, len(latest))
	for _, e := range latest {
		out = append(out, models.CapTableRow{
			InvestorID:     e.InvestorID,
			InvestorName:   fmt.Sprintf("investor-%d", e.InvestorID),
			OwnershipAfter: e.OwnershipAfter,
			AmountAfter:    e.AmountAfter,
		})
	}
	return out, nil
}

func (r *fakeLedgerRepo) Append(entry *models.OwnershipLedgerEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeLedgerRepo) CommitTransfer(t *models.Transfer, debit, credit *models.OwnershipLedgerEntry, history *models.TransferHistoryRecord, doc *models.TransferAgreementDocument) error {
	// Same guard as the SQL implementation: the flip only lands while the
	// row is still approved, and nothing is written otherwise.
	r.transfer.mu.Lock()
	current, ok := r.transfer.rows[t.ID]
	if !ok {
		r.transfer.mu.Unlock()
		return sql.ErrNoRows
	}
	if current.Status != models.StatusApproved {
		r.transfer.mu.Unlock()
		return models.NewStateConflictError("transfer %s is no longer approved", t.PublicID)
	}
	r.transfer.rows[t.ID] = *t
	r.transfer.mu.Unlock()

	r.mu.Lock()
	r.nextID++
	debit.ID = r.nextID
	r.entries = append(r.entries, *debit)
	r.nextID++
	credit.ID = r.nextID
	r.entries = append(r.entries, *credit)
	r.mu.Unlock()

	if _, err := r.history.Record(history); err != nil {
		return err
	}
	if doc != nil {
		if _, err := r.documents.Create(doc); err != nil {
			return err
		}
	}
	return nil
}

type fakeHistoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.TransferHistoryRecord
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Record(rec *models.TransferHistoryRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	r.rows = append(r.rows, *rec)
	return rec.ID, nil
}

func (r *fakeHistoryRepo) ListByTransfer(transferID int64) ([]models.TransferHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TransferHistoryRecord
	for _, rec := range r.rows {
		if rec.TransferID == transferID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeDocumentRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.TransferAgreementDocument
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{}
}

func (r *fakeDocumentRepo) Create(doc *models.TransferAgreementDocument) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	version := 0
	for i := range r.rows {
		if r.rows[i].TransferID == doc.TransferID && r.rows[i].DocType == doc.DocType {
			if r.rows[i].Version > version {
				version = r.rows[i].Version
			}
			r.rows[i].IsLatest = false
		}
	}
	r.nextID++
	doc.ID = r.nextID
	doc.Version = version + 1
	doc.IsLatest = true
	r.rows = append(r.rows, *doc)
	return doc.ID, nil
}

func (r *fakeDocumentRepo) LatestByType(transferID int64, docType models.DocumentType) (*models.TransferAgreementDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		d := r.rows[i]
		if d.TransferID == transferID && d.DocType == docType && d.IsLatest {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) ListByTransfer(transferID int64) ([]models.TransferAgreementDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TransferAgreementDocument
	for _, d := range r.rows {
		if d.TransferID == transferID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Supersede(transferID int64, docType models.DocumentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].TransferID == transferID && r.rows[i].DocType == docType {
			r.rows[i].IsLatest = false
		}
	}
	return nil
}

func (r *fakeDocumentRepo) SupersedeAll(transferID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].TransferID == transferID {
			r.rows[i].IsLatest = false
		}
	}
	return nil
}

type fakeDirectoryRepo struct {
	mu        sync.Mutex
	investors map[int64]models.Investor
	vehicles  map[int64]models.Vehicle
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		investors: make(map[int64]models.Investor),
		vehicles:  make(map[int64]models.Vehicle),
	}
}

func (r *fakeDirectoryRepo) GetInvestor(id int64) (models.Investor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	investor, ok := r.investors[id]
	if !ok {
		return models.Investor{}, sql.ErrNoRows
	}
	return investor, nil
}

func (r *fakeDirectoryRepo) GetVehicle(id int64) (models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return models.Vehicle{}, sql.ErrNoRows
	}
	return vehicle, nil
}

// countingCoordinator records how many documents of each type it generated.
// When arrivals and release are set, Generate signals each caller's arrival
// and then blocks until release closes, letting tests line up concurrent
// transitions at the external call.
type countingCoordinator struct {
	mu       sync.Mutex
	counts   map[models.DocumentType]int
	fail     bool
	arrivals chan struct{}
	release  chan struct{}
}

func newCountingCoordinator() *countingCoordinator {
	return &countingCoordinator{counts: make(map[models.DocumentType]int)}
}

func (c *countingCoordinator) Generate(docType models.DocumentType, transfer models.Transfer, signers docs.SignerData) (docs.Handle, error) {
	c.mu.Lock()
	if c.fail {
		c.mu.Unlock()
		return docs.Handle{}, models.NewExternalServiceError("document-coordinator", "generate %s: unavailable", docType)
	}
	c.counts[docType]++
	n := c.counts[docType]
	arrivals, release := c.arrivals, c.release
	c.mu.Unlock()

	if arrivals != nil {
		arrivals <- struct{}{}
		<-release
	}
	return docs.Handle{
		Ref:         fmt.Sprintf("doc_%s_%s_%d", docType, transfer.PublicID, n),
		ContentType: "text/plain",
	}, nil
}

func (c *countingCoordinator) count(docType models.DocumentType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[docType]
}

type testEnv struct {
	service     *Service
	transfers   *fakeTransferRepo
	ledger      *fakeLedgerRepo
	history     *fakeHistoryRepo
	documents   *fakeDocumentRepo
	directory   *fakeDirectoryRepo
	coordinator *countingCoordinator
}

const (
	investorA = int64(1)
	investorB = int64(2)
	managerID = int64(3)
	vehicleV  = int64(1)
)

func newTestEnv() *testEnv {
	history := newFakeHistoryRepo()
	documents := newFakeDocumentRepo()
	transfers := newFakeTransferRepo(history, documents)
	directory := newFakeDirectoryRepo()
	ledger := newFakeLedgerRepo(history, transfers, documents)
	coordinator := newCountingCoordinator()

	directory.investors[investorA] = models.Investor{ID: investorA, PublicID: "inv_a", Name: "Alice Archer", Email: "alice@example.com", Role: models.RoleInvestor}
	directory.investors[investorB] = models.Investor{ID: investorB, PublicID: "inv_b", Name: "Bob Birch", Email: "bob@example.com", Role: models.RoleInvestor}
	directory.investors[managerID] = models.Investor{ID: managerID, PublicID: "inv_m", Name: "Mara Mills", Email: "mara@example.com", Role: models.RoleManager}
	directory.vehicles[vehicleV] = models.Vehicle{ID: vehicleV, PublicID: "veh_v", Name: "SPV One"}

	repos := &repository.Repository{
		Transfer:  transfers,
		Ledger:    ledger,
		History:   history,
		Document:  documents,
		Directory: directory,
	}

	return &testEnv{
		service:     NewService(repos, coordinator),
		transfers:   transfers,
		ledger:      ledger,
		history:     history,
		documents:   documents,
		directory:   directory,
		coordinator: coordinator,
	}
}
