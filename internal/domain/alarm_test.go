package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
)

func TestAlarmExtractor_Signal(t *testing.T) {
	a := NewAlarmExtractor(gazetteer.Default())

	t.Run("oblast in locative case", func(t *testing.T) {
		sig := a.Signal("Повітряна тривога в Харківській області")
		require.NotNil(t, sig)
		assert.Equal(t, AlarmOn, sig.Status)
		assert.Equal(t, []string{"kharkivska"}, sig.Regions)
		assert.Empty(t, sig.Districts)
	})

	t.Run("all clear wins", func(t *testing.T) {
		sig := a.Signal("Відбій тривоги. Харківська область")
		require.NotNil(t, sig)
		assert.Equal(t, AlarmOff, sig.Status)
		assert.Equal(t, []string{"kharkivska"}, sig.Regions)
	})

	t.Run("district implies its region", func(t *testing.T) {
		sig := a.Signal("🚨 Тривога! Конотопський район")
		require.NotNil(t, sig)
		require.Len(t, sig.Districts, 1)
		assert.Equal(t, "sumyska:konotopskyi", sig.Districts[0].ID)
		assert.Equal(t, []string{"sumyska"}, sig.Regions)
	})

	t.Run("no region", func(t *testing.T) {
		assert.Nil(t, a.Signal("Повітряна тривога"))
	})

	t.Run("no alarm words", func(t *testing.T) {
		assert.Nil(t, a.Signal("Гарного дня, Харківщина"))
	})
}

func TestAdjectivalStem(t *testing.T) {
	stem, ok := adjectivalStem("харківська")
	assert.True(t, ok)
	assert.Equal(t, "харківськ", stem)

	stem, ok = adjectivalStem("одесская")
	assert.True(t, ok)
	assert.Equal(t, "одесск", stem)

	_, ok = adjectivalStem("київщина")
	assert.False(t, ok)
}

func TestAlarmState(t *testing.T) {
	s := NewAlarmState([]string{"kyiv", " "})
	district := AlarmDistrict{ID: "sumyska:konotopskyi", RegionID: "sumyska", Name: "Конотопський район"}

	s.Apply(AlarmSignal{Regions: []string{"kharkivska"}, Status: AlarmOn})
	s.Apply(AlarmSignal{Regions: []string{"sumyska"}, Districts: []AlarmDistrict{district}, Status: AlarmOn})
	s.Apply(AlarmSignal{Regions: []string{"kharkivska", "kyiv"}, Status: AlarmOff})

	assert.Equal(t, []string{"kyiv", "sumyska"}, s.Regions(), "forced regions survive an all-clear")
	assert.Equal(t, []AlarmDistrict{district}, s.Districts())

	snap := s.Export()
	assert.Equal(t, []string{"sumyska"}, snap.Regions, "forced regions are not exported")

	restored := NewAlarmState(nil)
	restored.Restore(snap)
	assert.Equal(t, []string{"sumyska"}, restored.Regions())
	assert.Equal(t, []AlarmDistrict{district}, restored.Districts())

	s.Apply(AlarmSignal{Regions: []string{"sumyska"}, Districts: []AlarmDistrict{district}, Status: AlarmOff})
	assert.Equal(t, []string{"kyiv"}, s.Regions())
	assert.Empty(t, s.Districts())
}

func TestAlarmState_ConcurrentApply(t *testing.T) {
	s := NewAlarmState(nil)
	var wg sync.WaitGroup
	for _, id := range []string{"odeska", "kyivska", "lvivska", "sumyska"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.Apply(AlarmSignal{Regions: []string{id}, Status: AlarmOn})
			_ = s.Regions()
		}(id)
	}
	wg.Wait()

	assert.Equal(t, []string{"kyivska", "lvivska", "odeska", "sumyska"}, s.Regions())
}
