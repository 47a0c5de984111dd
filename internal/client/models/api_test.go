package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DecodesServerBundle(t *testing.T) {
	var s Session
	err := json.Unmarshal([]byte(`{"session_token":"a","session_expiration":"2026-05-02T12:00:00.5Z","update_token":"b"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, "a", s.SessionToken)
	assert.Equal(t, "b", s.UpdateToken)
	assert.Equal(t, time.Date(2026, 5, 2, 12, 0, 0, 500_000_000, time.UTC), s.SessionExpiration.UTC())
}

func TestSession_Expired(t *testing.T) {
	exp := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	s := Session{SessionExpiration: exp}

	assert.False(t, s.Expired(exp.Add(-time.Nanosecond)))
	assert.True(t, s.Expired(exp))
	assert.True(t, s.Expired(exp.Add(time.Second)))
}
