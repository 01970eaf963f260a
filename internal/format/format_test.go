package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/grouping"
	"upnext/internal/models"
)

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"📅", 2}, // non-BMP, surrogate pair
		{"a📅b", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UTF16Len(tt.in), tt.in)
	}
}

func TestBuilderOffsets(t *testing.T) {
	b := &Builder{}
	b.Text("📅 ").Bold("June 2026").Text("\n").Italic("Tomorrow")
	msg := b.Message()

	assert.Equal(t, "📅 June 2026\nTomorrow", msg.Text)
	require.Len(t, msg.Entities, 2)

	bold := msg.Entities[0]
	assert.Equal(t, "bold", bold.Type)
	assert.Equal(t, 3, bold.Offset, "offset counts the emoji as two UTF-16 units")
	assert.Equal(t, 9, bold.Length)

	italic := msg.Entities[1]
	assert.Equal(t, "italic", italic.Type)
	assert.Equal(t, 13, italic.Offset)
	assert.Equal(t, 8, italic.Length)
}

func TestRepeatSummary(t *testing.T) {
	until := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	e := models.NewEvent("Rent", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	e.RepeatOption = models.RepeatNever
	assert.Equal(t, "once", RepeatSummary(e))

	e.RepeatOption = models.RepeatMonthly
	assert.Equal(t, "monthly", RepeatSummary(e))

	e.RepeatUntil = &until
	assert.Equal(t, "monthly until Dec 31, 2026", RepeatSummary(e))

	e.RepeatUntil = nil
	e.RepeatOption = models.RepeatCustom
	e.CustomRepeatCount = 2
	e.RepeatUnit = models.UnitWeeks
	assert.Equal(t, "every 2 weeks", RepeatSummary(e))

	e.CustomRepeatCount = 1
	assert.Equal(t, "every week", RepeatSummary(e))
}

func TestRenderGroupsEmpty(t *testing.T) {
	msg := RenderGroups(nil, time.Now())
	assert.Contains(t, msg.Text, "Nothing coming up")
}

func TestRenderGroupsShape(t *testing.T) {
	today := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		models.NewEvent("Standup", time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)),
	}
	groups := grouping.ForDisplay(events, today.AddDate(1, 0, 0), today, "")

	msg := RenderGroups(groups, today)
	assert.Contains(t, msg.Text, "June 2026")
	assert.Contains(t, msg.Text, "Tomorrow")
	assert.Contains(t, msg.Text, "Standup")
	assert.NotEmpty(t, msg.Entities)
}
