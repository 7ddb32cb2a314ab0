package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "slug:alice", SlugKey("alice"))
	assert.Equal(t, "metrics:user_1:30", MetricsKey("user_1", "", 30))
	assert.Equal(t, "metrics:user_1:l1:7", MetricsKey("user_1", "l1", 7))
	assert.Equal(t, "linkbio:slug:alice", prefixKey(SlugKey("alice")))
}
