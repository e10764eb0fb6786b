package logic

import (
	"fmt"
	"sync"
	"testing"

	"github.com/blues/efs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDonationAccumulates(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 500, 10) // 总额 5000

	ledger := NewItemLedgerLogic(db)

	updated, overflow, err := ledger.ApplyDonation(item.Id, 1500, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, overflow)
	assert.EqualValues(t, 1500, updated.DonatedAmount)
	assert.EqualValues(t, 3, updated.DonatedQuantity)
	assert.Equal(t, model.ItemStatusPartial, updated.Status)

	updated, overflow, err = ledger.ApplyDonation(item.Id, 2000, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 0, overflow)
	assert.EqualValues(t, 3500, updated.DonatedAmount)
	assert.EqualValues(t, 7, updated.DonatedQuantity)
	assert.Equal(t, model.ItemStatusPartial, updated.Status)
}

func TestApplyDonationClampsAtTarget(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 1000, 5) // 总额 5000

	ledger := NewItemLedgerLogic(db)

	// 超出部分被截断并返回，不报错
	updated, overflow, err := ledger.ApplyDonation(item.Id, 8000, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, overflow)
	assert.EqualValues(t, 5000, updated.DonatedAmount)
	assert.EqualValues(t, 5, updated.DonatedQuantity)
	assert.Equal(t, model.ItemStatusCompleted, updated.Status)

	// 已筹满后继续入账，全额截断
	updated, overflow, err = ledger.ApplyDonation(item.Id, 700, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 700, overflow)
	assert.EqualValues(t, 5000, updated.DonatedAmount)
	assert.Equal(t, model.ItemStatusCompleted, updated.Status)
}

func TestApplyDonationStatusFunction(t *testing.T) {
	tests := []struct {
		name     string
		donated  int64
		total    int64
		expected model.ItemStatus
	}{
		{"未捐赠", 0, 1000, model.ItemStatusPending},
		{"部分捐赠", 1, 1000, model.ItemStatusPartial},
		{"接近筹满", 999, 1000, model.ItemStatusPartial},
		{"刚好筹满", 1000, 1000, model.ItemStatusCompleted},
		{"超额", 1500, 1000, model.ItemStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.ComputeItemStatus(tt.donated, tt.total))
		})
	}
}

func TestApplyDonationZeroAmountKeepsPending(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 1000, 5)

	ledger := NewItemLedgerLogic(db)

	updated, overflow, err := ledger.ApplyDonation(item.Id, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, overflow)
	assert.EqualValues(t, 0, updated.DonatedAmount)
	assert.Equal(t, model.ItemStatusPending, updated.Status)
}

func TestApplyDonationRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 1000, 5)

	ledger := NewItemLedgerLogic(db)

	_, _, err := ledger.ApplyDonation(item.Id, -100, 0)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, _, err = ledger.ApplyDonation(item.Id, 100, -1)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestApplyDonationMissingItem(t *testing.T) {
	db := newTestDB(t)

	ledger := NewItemLedgerLogic(db)

	_, _, err := ledger.ApplyDonation(9999, 100, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestApplyDonationTombstonedItem(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 1000, 5)

	ledger := NewItemLedgerLogic(db)
	require.NoError(t, ledger.DeleteItem(item.Id))

	// 软删除后的物品对入账不可见
	_, _, err := ledger.ApplyDonation(item.Id, 100, 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestApplyDonationConcurrent(t *testing.T) {
	counts := []int{2, 10, 100}

	for _, n := range counts {
		n := n
		t.Run(fmt.Sprintf("N%d", n), func(t *testing.T) {
			db := newTestDB(t)
			event := createTestEvent(t, db, 1000000, 0)

			total := int64(100000)
			perCall := total / int64(n)
			item := createTestItem(t, db, event.Id, total, 1)

			ledger := NewItemLedgerLogic(db)
			ledger.MaxRetries = 3*n + 20

			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _, err := ledger.ApplyDonation(item.Id, perCall, 0)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			// 既没有丢失更新（总和不少），也没有漏掉封顶（总和不多）
			var final model.EventItemModel
			require.NoError(t, db.First(&final, item.Id).Error)
			assert.EqualValues(t, total, final.DonatedAmount)
			assert.Equal(t, model.ItemStatusCompleted, final.Status)
		})
	}
}

func TestGetFulfillmentAgreesWithCachedAmount(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 1000, 10)

	ledger := NewItemLedgerLogic(db)
	donationLogic := NewDonationLogic(db, ledger)

	for i, amount := range []int64{1200, 800, 3000} {
		donation := &model.DonationModel{
			EventId:      event.Id,
			EventItemId:  &item.Id,
			ItemQuantity: 1,
			Amount:       amount,
			Reference:    string(rune('a' + i)),
			Status:       model.DonationStatusCompleted,
		}
		_, err := donationLogic.RecordDonation(donation)
		require.NoError(t, err)
	}

	fulfillment, err := ledger.GetFulfillment(item.Id)
	require.NoError(t, err)

	// 捐赠记录求和与缓存字段一致，不一致说明有丢失更新
	assert.EqualValues(t, 5000, fulfillment.TotalDonations)
	assert.EqualValues(t, 3, fulfillment.TotalQuantityDonated)
	assert.EqualValues(t, 5000, fulfillment.Item.DonatedAmount)
}

func TestGetFulfillmentMissingItem(t *testing.T) {
	db := newTestDB(t)

	ledger := NewItemLedgerLogic(db)
	_, err := ledger.GetFulfillment(404)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateItemComputesTotalAmount(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)

	ledger := NewItemLedgerLogic(db)

	item := &model.EventItemModel{
		EventId:       event.Id,
		Name:          "帐篷",
		UnitPrice:     2500,
		TotalQuantity: 4,
	}
	require.NoError(t, ledger.CreateItem(item))
	assert.EqualValues(t, 10000, item.TotalAmount)
	assert.Equal(t, model.ItemStatusPending, item.Status)
}

func TestCreateItemRejectsTerminalEvent(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	require.NoError(t, db.Model(event).Update("status", model.EventStatusCompleted).Error)

	ledger := NewItemLedgerLogic(db)

	err := ledger.CreateItem(&model.EventItemModel{
		EventId:       event.Id,
		Name:          "帐篷",
		UnitPrice:     2500,
		TotalQuantity: 4,
	})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}
