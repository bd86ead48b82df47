package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityActor(t *testing.T) {
	assert.Equal(t, "9876543210", Citizen{Phone: "9876543210"}.Actor())
	assert.Equal(t, "9990001111", Authority{Phone: "9990001111"}.Actor())
	assert.Equal(t, "admin:ops", Admin{Username: "ops"}.Actor())
}
