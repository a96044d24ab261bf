// Package lists_test contains tests for purchase lists and line items.
package lists_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panier/internal/catalog"
	"panier/internal/lists"
	"panier/internal/reminders"
	"panier/internal/testsupport"
)

func TestLineTotalIsRecomputedNotTrusted(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	list := testsupport.CreateTestList(t, db, "Test", time.Now())

	item := lists.LineItem{
		ListID:    list.ID,
		ProductID: rice.ID,
		Quantity:  3,
		UnitPrice: 12.5,
		LineTotal: 9999, // caller lies
	}
	require.NoError(t, lists.AddLineItem(db, &item))

	assert.InDelta(t, 37.5, item.LineTotal, 1e-6)

	stored, err := lists.GetLineItems(db, list.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 37.5, stored[0].LineTotal, 1e-6)
}

func TestListTotalTracksItemWrites(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	oil := testsupport.CreateTestProduct(t, db, "Huile", "L")
	list := testsupport.CreateTestList(t, db, "Courses", time.Now())

	first := lists.LineItem{ListID: list.ID, ProductID: rice.ID, Quantity: 2, UnitPrice: 10}
	second := lists.LineItem{ListID: list.ID, ProductID: oil.ID, Quantity: 1, UnitPrice: 8}
	require.NoError(t, lists.AddLineItem(db, &first))
	require.NoError(t, lists.AddLineItem(db, &second))

	reloaded, err := lists.GetListByID(db, list.ID)
	require.NoError(t, err)
	assert.InDelta(t, 28, reloaded.TotalAmount, 1e-6)

	first.Quantity = 5
	require.NoError(t, lists.UpdateLineItem(db, &first))

	reloaded, err = lists.GetListByID(db, list.ID)
	require.NoError(t, err)
	assert.InDelta(t, 58, reloaded.TotalAmount, 1e-6)

	require.NoError(t, lists.DeleteLineItem(db, second.ID))

	reloaded, err = lists.GetListByID(db, list.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, reloaded.TotalAmount, 1e-6)
}

func TestCreateListZeroesCallerTotal(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	list := lists.PurchaseList{Name: "Neuve", TotalAmount: 500}
	require.NoError(t, lists.CreateList(db, &list))

	reloaded, err := lists.GetListByID(db, list.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.TotalAmount)
	assert.NotEmpty(t, reloaded.Date)
}

func TestDeleteListCascades(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	list := testsupport.CreateTestList(t, db, "À supprimer", time.Now())
	testsupport.CreateTestLineItem(t, db, list.ID, rice.ID, 1, 10)

	reminder := reminders.Reminder{
		ListID: &list.ID,
		Title:  "Ne pas oublier",
		Type:   reminders.TypeList,
	}
	require.NoError(t, reminders.CreateReminder(db, &reminder))

	require.NoError(t, lists.DeleteList(db, list.ID))

	_, err := lists.GetListByID(db, list.ID)
	var notFound *lists.ListNotFoundError
	assert.ErrorAs(t, err, &notFound)

	items, err := lists.GetLineItems(db, list.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Reminders survive as soft-deleted rows.
	reloaded, err := reminders.GetReminderByID(db, reminder.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Deleted)
}

func TestDeleteMissingListReturnsNotFound(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	err := lists.DeleteList(db, 424242)
	var notFound *lists.ListNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestValidateList(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	list := testsupport.CreateTestList(t, db, "Brouillon", time.Now())
	assert.Equal(t, lists.StatusDraft, list.Status)

	require.NoError(t, lists.ValidateList(db, list.ID))

	reloaded, err := lists.GetListByID(db, list.ID)
	require.NoError(t, err)
	assert.Equal(t, lists.StatusValidated, reloaded.Status)
}

func TestToggleChecked(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	list := testsupport.CreateTestList(t, db, "Cocher", time.Now())
	item := testsupport.CreateTestLineItem(t, db, list.ID, rice.ID, 1, 10)

	require.NoError(t, lists.ToggleChecked(db, item.ID))

	stored, err := lists.GetLineItems(db, list.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Checked)

	require.NoError(t, lists.ToggleChecked(db, item.ID))

	stored, err = lists.GetLineItems(db, list.ID)
	require.NoError(t, err)
	assert.False(t, stored[0].Checked)
}

func TestGetListsInRange(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	inside := testsupport.CreateTestList(t, db, "Dedans", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	testsupport.CreateTestList(t, db, "Avant", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	testsupport.CreateTestList(t, db, "Après", time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC))

	found, err := lists.GetListsInRange(db,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, inside.ID, found[0].ID)
}

func TestAddLineItemDefaultsUnit(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	rice := testsupport.CreateTestProduct(t, db, "Riz", "kg")
	list := testsupport.CreateTestList(t, db, "Unité", time.Now())

	item := lists.LineItem{ListID: list.ID, ProductID: rice.ID, Quantity: 1, UnitPrice: 5}
	require.NoError(t, lists.AddLineItem(db, &item))
	assert.Equal(t, catalog.DefaultUnit, item.Unit)
}
