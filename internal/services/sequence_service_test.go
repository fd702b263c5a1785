package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	apperrors "solarforyou/pkg/errors"
	"solarforyou/pkg/numbering"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type counterRow struct {
	value       int64
	initialized bool
}

// fakeSequenceRepo хранит счётчики в памяти; rowLock имитирует SELECT ... FOR UPDATE
// на всё время "транзакции" вызывающего.
type fakeSequenceRepo struct {
	mu       sync.Mutex
	rows     map[string]*counterRow
	existing map[string][]string
	rowLock  sync.Mutex
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{rows: map[string]*counterRow{}, existing: map[string][]string{}}
}

func (f *fakeSequenceRepo) Lock(_ context.Context, _ pgx.Tx, scope string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[scope]
	if !ok {
		row = &counterRow{}
		f.rows[scope] = row
	}
	return row.value, row.initialized, nil
}

func (f *fakeSequenceRepo) Store(_ context.Context, _ pgx.Tx, scope string, value int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[scope] = &counterRow{value: value, initialized: true}
	return nil
}

func (f *fakeSequenceRepo) ExistingValues(_ context.Context, _ pgx.Tx, kind numbering.Kind, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.existing[kind.Code]...), nil
}

// reserve повторяет путь создания: блокировка строки, номер, коммит.
func reserve(t *testing.T, repo *fakeSequenceRepo, svc SequenceServiceInterface, kind numbering.Kind, at time.Time) string {
	repo.rowLock.Lock()
	defer repo.rowLock.Unlock()
	number, err := svc.Next(context.Background(), nil, kind, at)
	require.NoError(t, err)
	return number
}

var seqDay = time.Date(2024, time.May, 17, 10, 0, 0, 0, time.UTC)

func TestSequence_SameDayRequisitions(t *testing.T) {
	repo := newFakeSequenceRepo()
	svc := NewSequenceService(repo, zap.NewNop())

	assert.Equal(t, "ZAP/2024/05/17/1", reserve(t, repo, svc, numbering.Requisition, seqDay))
	assert.Equal(t, "ZAP/2024/05/17/2", reserve(t, repo, svc, numbering.Requisition, seqDay))
	// другая серия и другой день начинают с единицы
	assert.Equal(t, "HR/2024/05/17/1", reserve(t, repo, svc, numbering.HRRequisition, seqDay))
	assert.Equal(t, "ZAP/2024/05/18/1", reserve(t, repo, svc, numbering.Requisition, seqDay.AddDate(0, 0, 1)))
}

func TestSequence_ItemIndex(t *testing.T) {
	repo := newFakeSequenceRepo()
	svc := NewSequenceService(repo, zap.NewNop())

	assert.Equal(t, "000001", reserve(t, repo, svc, numbering.ItemIndex, seqDay))
	assert.Equal(t, "000002", reserve(t, repo, svc, numbering.ItemIndex, seqDay))
}

func TestSequence_SeedsFromLegacyRows(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.existing["ZAP"] = []string{"ZAP/2024/05/17/3", "ZAP/2024/05/17/7", "ZAP/2024/05/17/x1"}
	repo.existing[""] = []string{"000010", "ABC"}
	svc := NewSequenceService(repo, zap.NewNop())

	assert.Equal(t, "ZAP/2024/05/17/8", reserve(t, repo, svc, numbering.Requisition, seqDay))
	assert.Equal(t, "ZAP/2024/05/17/9", reserve(t, repo, svc, numbering.Requisition, seqDay))
	assert.Equal(t, "000011", reserve(t, repo, svc, numbering.ItemIndex, seqDay))
}

func TestSequence_ConcurrentReservationsAreDistinct(t *testing.T) {
	repo := newFakeSequenceRepo()
	svc := NewSequenceService(repo, zap.NewNop())

	const workers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := reserve(t, repo, svc, numbering.TransportRequest, seqDay)
			mu.Lock()
			numbers[n] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	for i := 1; i <= workers; i++ {
		assert.Contains(t, numbers, fmt.Sprintf("TR/2024/05/17/%d", i))
	}
}

func TestSequence_ItemIndexExhausted(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.rows["ITEM"] = &counterRow{value: numbering.ItemIndex.Max() - 1, initialized: true}
	svc := NewSequenceService(repo, zap.NewNop())

	assert.Equal(t, "999999", reserve(t, repo, svc, numbering.ItemIndex, seqDay))

	_, err := svc.Next(context.Background(), nil, numbering.ItemIndex, seqDay)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	// счётчик не сдвинулся
	assert.Equal(t, numbering.ItemIndex.Max(), repo.rows["ITEM"].value)
}
