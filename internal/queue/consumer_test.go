package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/model"
)

func sampleEntry() model.AuditEntry {
    return model.AuditEntry{
        ID:        "e-1",
        Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
        EventType: model.AuditReservation,
        Action:    "reserved",
        SessionID: "sess-1",
        ActorID:   "client-x",
        Metadata: map[string]string{
            "seats":       "A-1,A-2",
            "channel":     "primary",
            "performance": "Jazz Ensemble/2/B",
        },
    }
}

func TestFormatEntrySortsMetadata(t *testing.T) {
    want := "[2025-03-14T09:26:53Z] reservation/reserved | id=e-1 | session=sess-1 | actor=client-x | channel=primary performance=Jazz Ensemble/2/B seats=A-1,A-2\n"
    for i := 0; i < 10; i++ {
        assert.Equal(t, want, formatEntry(sampleEntry()))
    }
}

func TestFormatEntryWithoutMetadata(t *testing.T) {
    e := sampleEntry()
    e.Metadata = nil
    assert.Contains(t, formatEntry(e), "| -\n")
}

func TestHandleMessageAppendsToLog(t *testing.T) {
    t.Chdir(t.TempDir())

    body, err := json.Marshal(sampleEntry())
    require.NoError(t, err)
    require.NoError(t, handleMessage(body))
    require.NoError(t, handleMessage(body))

    data, err := os.ReadFile(filepath.Join("logs", "audit.log"))
    require.NoError(t, err)
    assert.Equal(t, formatEntry(sampleEntry())+formatEntry(sampleEntry()), string(data))
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
    t.Chdir(t.TempDir())
    assert.Error(t, handleMessage([]byte("{not json")))
}
