package history

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ilyakhov/swapdesk/internal/domain"
)

func TestLog_NewestFirst(t *testing.T) {
	log := NewLog(DefaultCap)
	log.Append(domain.SwapRecord{ID: "a"})
	log.Append(domain.SwapRecord{ID: "b"})

	records := log.Records()
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestLog_EvictsBeyondCap(t *testing.T) {
	log := NewLog(DefaultCap)
	for i := 0; i < 10; i++ {
		log.Append(domain.SwapRecord{ID: strconv.Itoa(i)})
	}

	assert.Equal(t, DefaultCap, log.Len())
	assert.Equal(t, "9", log.Records()[0].ID)
	assert.Equal(t, "2", log.Records()[DefaultCap-1].ID)
}

func TestLog_RecordsReturnsCopy(t *testing.T) {
	log := NewLog(2)
	log.Append(domain.SwapRecord{ID: "a"})

	records := log.Records()
	records[0].ID = "mutated"
	assert.Equal(t, "a", log.Records()[0].ID)
}

func TestNewLog_NonPositiveCapFallsBack(t *testing.T) {
	assert.NotPanics(t, func() {
		log := NewLog(0)
		for i := 0; i < DefaultCap+1; i++ {
			log.Append(domain.SwapRecord{})
		}
		assert.Equal(t, DefaultCap, log.Len())
	})
}
