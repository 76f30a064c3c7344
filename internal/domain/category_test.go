package domain_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/itsm-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	t.Run("links children under parents and keeps sibling order", func(t *testing.T) {
		categories := []domain.Category{
			{ID: "root", Name: "Hardware"},
			{ID: "child-a", Name: "Laptops", ParentID: strPtr("root")},
			{ID: "child-b", Name: "Monitors", ParentID: strPtr("root")},
			{ID: "grandchild", Name: "Chargers", ParentID: strPtr("child-a")},
		}

		roots := domain.BuildTree(categories)
		gt.Array(t, roots).Length(1)
		gt.Value(t, roots[0].ID).Equal("root")
		gt.Array(t, roots[0].Children).Length(2)
		gt.Value(t, roots[0].Children[0].ID).Equal("child-a")
		gt.Value(t, roots[0].Children[1].ID).Equal("child-b")
		gt.Array(t, roots[0].Children[0].Children).Length(1)
		gt.Value(t, roots[0].Children[0].Children[0].ID).Equal("grandchild")
	})

	t.Run("node with dangling parent id becomes a root", func(t *testing.T) {
		categories := []domain.Category{
			{ID: "a", Name: "Software"},
			{ID: "b", Name: "Orphan", ParentID: strPtr("missing")},
		}

		roots := domain.BuildTree(categories)
		gt.Array(t, roots).Length(2)
		gt.Value(t, roots[0].ID).Equal("a")
		gt.Value(t, roots[1].ID).Equal("b")
	})

	t.Run("empty input yields no roots", func(t *testing.T) {
		gt.Array(t, domain.BuildTree(nil)).Length(0)
	})
}

func TestFlattenOptions(t *testing.T) {
	t.Run("labels carry the ancestor path", func(t *testing.T) {
		roots := domain.BuildTree([]domain.Category{
			{ID: "hw", Name: "Hardware"},
			{ID: "lap", Name: "Laptops", ParentID: strPtr("hw")},
			{ID: "chg", Name: "Chargers", ParentID: strPtr("lap")},
			{ID: "sw", Name: "Software"},
		})

		options := domain.FlattenOptions(roots)
		gt.Array(t, options).Length(4)
		gt.Value(t, options[0].Label).Equal("Hardware")
		gt.Value(t, options[1].Label).Equal("Hardware / Laptops")
		gt.Value(t, options[2].Label).Equal("Hardware / Laptops / Chargers")
		gt.Value(t, options[3].Label).Equal("Software")
	})

	t.Run("parents appear before their descendants", func(t *testing.T) {
		roots := domain.BuildTree([]domain.Category{
			{ID: "a", Name: "A"},
			{ID: "b", Name: "B"},
			{ID: "a1", Name: "A1", ParentID: strPtr("a")},
			{ID: "b1", Name: "B1", ParentID: strPtr("b")},
		})

		options := domain.FlattenOptions(roots)
		seen := make(map[string]int)
		for i, o := range options {
			seen[o.ID] = i
		}
		gt.Bool(t, seen["a"] < seen["a1"]).True()
		gt.Bool(t, seen["b"] < seen["b1"]).True()
	})
}

func TestRollupCounts(t *testing.T) {
	roots := domain.BuildTree([]domain.Category{
		{ID: "hw", Name: "Hardware", TicketsCount: 2},
		{ID: "lap", Name: "Laptops", ParentID: strPtr("hw"), TicketsCount: 3},
		{ID: "chg", Name: "Chargers", ParentID: strPtr("lap"), TicketsCount: 1},
		{ID: "sw", Name: "Software", TicketsCount: 0},
	})

	totals := domain.RollupCounts(roots)
	gt.Value(t, totals["chg"]).Equal(1)
	gt.Value(t, totals["lap"]).Equal(4)
	gt.Value(t, totals["hw"]).Equal(6)
	gt.Value(t, totals["sw"]).Equal(0)

	// per-node counts on the tree stay direct-only
	gt.Value(t, roots[0].TicketsCount).Equal(2)
}
