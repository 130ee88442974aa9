package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.POLICY_GENERATED", Subject("POLICY_GENERATED"))
}
