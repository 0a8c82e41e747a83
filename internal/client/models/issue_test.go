package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    IssueStatus
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "InProgress", want: StatusInProgress},
		{in: " RESOLVED ", want: StatusResolved},
		{in: "rejected", want: StatusRejected},
		{in: "closed", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueStatus_Label(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Inprogress", StatusInProgress.Label())
	assert.Equal(t, "Resolved", StatusResolved.Label())
	assert.Equal(t, "", IssueStatus("").Label())
}

func TestIssueStatus_TransitionPath(t *testing.T) {
	p, ok := StatusInProgress.TransitionPath()
	require.True(t, ok)
	assert.Equal(t, "in-progress", p)

	p, ok = IssueStatus("resolved").TransitionPath()
	require.True(t, ok)
	assert.Equal(t, "resolve", p)

	p, ok = StatusRejected.TransitionPath()
	require.True(t, ok)
	assert.Equal(t, "reject", p)

	_, ok = StatusPending.TransitionPath()
	assert.False(t, ok)
}

func TestIssue_CreatedTime(t *testing.T) {
	is := Issue{CreatedAt: "2024-03-05T10:20:30"}
	ts, ok := is.CreatedTime()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 5, ts.Day())

	_, ok = Issue{}.CreatedTime()
	assert.False(t, ok)

	_, ok = Issue{CreatedAt: "yesterday"}.CreatedTime()
	assert.False(t, ok)
}

func TestIssue_DecodeBackendPayload(t *testing.T) {
	raw := `{"id":7,"title":"Corruption","name":"Asha","email":"a@x.in","status":"PENDING",
		"createdAt":"2024-01-02T03:04:05","latitude":28.6,"longitude":77.2}`

	var is Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &is))
	assert.Equal(t, int64(7), is.ID)
	assert.Equal(t, StatusPending, is.Status)
	require.NotNil(t, is.Latitude)
	assert.InDelta(t, 28.6, *is.Latitude, 1e-9)
}

func TestCountStatuses(t *testing.T) {
	counts := CountStatuses([]Issue{
		{Status: StatusPending},
		{Status: "pending"},
		{Status: StatusResolved},
		{Status: "ARCHIVED"},
	})

	assert.Equal(t, 2, counts[StatusPending])
	assert.Equal(t, 1, counts[StatusResolved])
	assert.Equal(t, 0, counts[StatusRejected])
	assert.Equal(t, 1, counts["ARCHIVED"])
}

func TestIsComplaintTitle(t *testing.T) {
	assert.True(t, IsComplaintTitle("Garbage Collection"))
	assert.False(t, IsComplaintTitle("garbage collection"))
	assert.False(t, IsComplaintTitle(""))
}
