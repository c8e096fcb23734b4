package deadline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-plazos/internal/deadline"
)

func TestStatusFor_Thresholds(t *testing.T) {
	tests := []struct {
		days int
		want deadline.Status
	}{
		{-30, deadline.StatusOverdue},
		{-1, deadline.StatusOverdue},
		{0, deadline.StatusDueToday},
		{1, deadline.StatusCritical},
		{3, deadline.StatusCritical},
		{4, deadline.StatusWarning},
		{7, deadline.StatusWarning},
		{8, deadline.StatusNormal},
		{365, deadline.StatusNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, deadline.StatusFor(tt.days), "days=%d", tt.days)
	}
}

func TestClassify(t *testing.T) {
	today := d(2025, 9, 15)

	assert.Equal(t, -1, deadline.DaysRemaining(d(2025, 9, 14), today))
	assert.Equal(t, deadline.StatusOverdue, deadline.Classify(d(2025, 9, 14), today))
	assert.Equal(t, deadline.StatusDueToday, deadline.Classify(today, today))
	assert.Equal(t, deadline.StatusCritical, deadline.Classify(d(2025, 9, 18), today))
	assert.Equal(t, deadline.StatusWarning, deadline.Classify(d(2025, 9, 22), today))
	assert.Equal(t, deadline.StatusNormal, deadline.Classify(d(2025, 10, 1), today))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "vencido", deadline.StatusOverdue.String())
	assert.Equal(t, "hoy", deadline.StatusDueToday.String())
	assert.Equal(t, "critico", deadline.StatusCritical.String())
	assert.Equal(t, "alerta", deadline.StatusWarning.String())
	assert.Equal(t, "normal", deadline.StatusNormal.String())
}
