package util_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/itsm-service/pkg/util"
)

func TestOptionalUnmarshal(t *testing.T) {
	type patch struct {
		Title    util.Optional[string] `json:"title"`
		Assignee util.Optional[string] `json:"assignee"`
	}

	t.Run("absent key stays unset", func(t *testing.T) {
		var p patch
		gt.NoError(t, json.Unmarshal([]byte(`{}`), &p)).Required()
		gt.Bool(t, p.Title.Set).False()
		gt.Bool(t, p.Assignee.Set).False()
	})

	t.Run("explicit null is set with nil value", func(t *testing.T) {
		var p patch
		gt.NoError(t, json.Unmarshal([]byte(`{"assignee":null}`), &p)).Required()
		gt.Bool(t, p.Assignee.Set).True()
		gt.Value(t, p.Assignee.Value).Nil()
		gt.Bool(t, p.Title.Set).False()
	})

	t.Run("value is set and carried", func(t *testing.T) {
		var p patch
		gt.NoError(t, json.Unmarshal([]byte(`{"title":"New title"}`), &p)).Required()
		gt.Bool(t, p.Title.Set).True()
		gt.Value(t, *p.Title.Value).Equal("New title")
	})

	t.Run("type mismatch fails", func(t *testing.T) {
		var p patch
		gt.Error(t, json.Unmarshal([]byte(`{"title":42}`), &p))
	})
}

func TestOptionalMarshal(t *testing.T) {
	raw, err := json.Marshal(util.Some("x"))
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal(`"x"`)

	raw, err = json.Marshal(util.Null[string]())
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal("null")
}
