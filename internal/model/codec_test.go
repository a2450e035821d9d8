package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

	plain := NewTaskAt(now, "plain")
	dated := NewTaskAt(now.Add(time.Second), "dated", WithDueDate(now.Add(36*time.Hour)), WithCategory(CategoryHealth))
	done := NewTaskAt(now.Add(2*time.Second), "done", WithDescription("with description"), WithPriority(PriorityHigh))
	done.CompleteAt(now.Add(time.Minute))
	local := NewTaskAt(now.In(time.FixedZone("UTC+9", 9*3600)), "local zone", WithDueDate(now.In(time.FixedZone("UTC-5", -5*3600))))

	tasks := []*Task{plain, dated, done, local}

	data, err := EncodeTasks(tasks)
	require.NoError(t, err)

	decoded, err := DecodeTasks(data)
	require.NoError(t, err)
	assert.Equal(t, tasks, decoded)
}

func TestCodec_WireFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	task := NewTaskAt(now, "wire", WithPriority(PriorityLow), WithCategory(CategoryShopping))
	task.ID = "00000000-0000-0000-0000-000000000001"

	data, err := EncodeTasks([]*Task{task})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": "00000000-0000-0000-0000-000000000001",
		"title": "wire",
		"description": "",
		"isCompleted": false,
		"priority": "low",
		"category": "shopping",
		"createdAt": "2025-03-14T09:00:00Z",
		"dueDate": null,
		"completedAt": null
	}]`, string(data))
}

func TestCodec_EmptyCollection(t *testing.T) {
	data, err := EncodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := DecodeTasks(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestCodec_RejectsMalformed(t *testing.T) {
	const ts = `"createdAt":"2025-03-14T09:00:00Z"`
	tests := map[string]string{
		"not json":                    `{{{`,
		"wrong shape":                 `{"id": "x"}`,
		"unknown priority":            `[{"id":"x","title":"t","priority":"urgent","category":"work",` + ts + `}]`,
		"unknown category":            `[{"id":"x","title":"t","priority":"low","category":"hobby",` + ts + `}]`,
		"bad timestamp":               `[{"id":"x","title":"t","priority":"low","category":"work","createdAt":"yesterday"}]`,
		"null entry":                  `[null]`,
		"completed without timestamp": `[{"id":"x","title":"t","isCompleted":true,"priority":"low","category":"work",` + ts + `}]`,
		"missing id":                  `[{"title":"t","priority":"low","category":"work",` + ts + `}]`,
		"missing priority":            `[{"id":"x","title":"t","category":"work",` + ts + `}]`,
		"missing category":            `[{"id":"x","title":"t","priority":"low",` + ts + `}]`,
		"missing createdAt":           `[{"id":"x","title":"t","priority":"low","category":"work"}]`,
		"duplicate ids":               `[{"id":"x","title":"a","priority":"low","category":"work",` + ts + `},{"id":"x","title":"b","priority":"high","category":"personal",` + ts + `}]`,
		"bare titles":                 `[{"title":"no id, no enums, no createdAt"},{"title":"same empty id"}]`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTasks([]byte(input))
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "failed to decode tasks"))
		})
	}
}
