package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattduff36/vostudiofinder-sub004/internal/datastore"
	"github.com/mattduff36/vostudiofinder-sub004/internal/legacy"
)

func TestMatchService(t *testing.T) {
	tests := []struct {
		value string
		want  datastore.ServiceType
		ok    bool
	}{
		{"Source Connect", datastore.ServiceSourceConnect, true},
		{"source-connect standard", datastore.ServiceSourceConnect, true},
		{"SourceConnect Now", datastore.ServiceSourceConnect, true},
		{"Cleanfeed", datastore.ServiceCleanfeed, true},
		{"Session Link Pro", datastore.ServiceSessionLink, true},
		{"zoom", datastore.ServiceZoom, true},
		{"Skype", datastore.ServiceSkype, true},
		{"MS Teams", datastore.ServiceTeams, true},
		{"ISDN", datastore.ServiceSourceConnect, true},
		{"carrier pigeon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := matchService(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServicesDedupAndOrder(t *testing.T) {
	meta := legacy.Bag{
		"connection1": "Zoom",
		"connection2": "Source Connect",
		"connection3": "zoom meetings", // duplicate of slot 1
		"connection4": "ISDN",          // synonym, already present
	}

	got := Services(meta)
	assert.Equal(t, []datastore.ServiceType{datastore.ServiceZoom, datastore.ServiceSourceConnect}, got)
}

func TestServicesForceAddFlags(t *testing.T) {
	t.Run("sc flag alone", func(t *testing.T) {
		got := Services(legacy.Bag{"sc": "1"})
		assert.Equal(t, []datastore.ServiceType{datastore.ServiceSourceConnect}, got)
	})

	t.Run("von flag alone", func(t *testing.T) {
		got := Services(legacy.Bag{"von": "true"})
		assert.Equal(t, []datastore.ServiceType{datastore.ServiceSourceConnect}, got)
	})

	t.Run("flag does not duplicate a matched slot", func(t *testing.T) {
		got := Services(legacy.Bag{"connection1": "Source Connect", "sc": "1"})
		assert.Equal(t, []datastore.ServiceType{datastore.ServiceSourceConnect}, got)
	})

	t.Run("falsy flags add nothing", func(t *testing.T) {
		assert.Empty(t, Services(legacy.Bag{"sc": "0", "von": "no"}))
	})
}

func TestServicesEmptyMetadata(t *testing.T) {
	assert.Empty(t, Services(legacy.Bag{}))
}
