package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutNotifiesEveryRecipient(t *testing.T) {
	var fanout NotificationFanout
	fanout.Attach(StudentRecipient(1))
	fanout.Attach(StudentRecipient(2))
	fanout.Attach(InstructorRecipient(7))

	notifications := fanout.Notify("new work available")
	require.Len(t, notifications, 3)

	assert.Equal(t, RecipientStudent, notifications[0].RecipientType)
	assert.Equal(t, uint(1), notifications[0].RecipientID)
	assert.Equal(t, RecipientInstructor, notifications[2].RecipientType)
	for _, n := range notifications {
		assert.Equal(t, "new work available", n.Message)
	}
}

func TestFanoutClearsAfterNotify(t *testing.T) {
	var fanout NotificationFanout
	fanout.Attach(StudentRecipient(1))

	require.Len(t, fanout.Notify("first"), 1)

	// 一次性广播：通知后订阅即失效
	assert.Empty(t, fanout.Notify("second"))

	fanout.Attach(StudentRecipient(2))
	notifications := fanout.Notify("third")
	require.Len(t, notifications, 1)
	assert.Equal(t, uint(2), notifications[0].RecipientID)
}
