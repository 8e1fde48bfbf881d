package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationTimeoutInMilliseconds(t *testing.T) {
	n := Notification{
		Severity:  SeverityFailure,
		Message:   "The student data could not be loaded",
		Category:  CategoryLoadError,
		Timeout:   3 * time.Second,
		Operation: OperationReload,
	}
	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, float64(3000), fields["timeout"])
	assert.Equal(t, CategoryLoadError, fields["category"])

	var back Notification
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 3*time.Second, back.Timeout)
	assert.Equal(t, OperationReload, back.Operation)
}

func TestOutcomeFromNotification(t *testing.T) {
	o := OutcomeFromNotification(Notification{Category: CategoryRateError, StudentID: 7})
	require.NotNil(t, o.StudentID)
	assert.Equal(t, int64(7), *o.StudentID)
	assert.Nil(t, o.RequestID)
}
