package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_StateLifecycle(t *testing.T) {
	sm := NewManager()
	assert.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateAwaitingSpreadsheet)
	assert.Equal(t, StateAwaitingSpreadsheet, sm.GetState(1))

	sm.ClearState(1)
	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Nil(t, sm.GetAllData(1))
}

func TestManager_ClearStateKeepsData(t *testing.T) {
	sm := NewManager()
	sm.SetData(7, KeySearchQuery, "java")
	sm.SetState(7, StateAwaitingSpreadsheet)

	sm.ClearState(7)

	query, ok := sm.GetString(7, KeySearchQuery)
	assert.True(t, ok)
	assert.Equal(t, "java", query)

	sm.Reset(7)
	_, ok = sm.GetString(7, KeySearchQuery)
	assert.False(t, ok)
}

func TestManager_GetAllDataIsCopy(t *testing.T) {
	sm := NewManager()
	sm.SetData(3, "k", "v")

	data := sm.GetAllData(3)
	data["k"] = "changed"

	value, _ := sm.GetString(3, "k")
	assert.Equal(t, "v", value)
}

func TestManager_GetStringWrongType(t *testing.T) {
	sm := NewManager()
	sm.SetData(3, "page", 2)

	_, ok := sm.GetString(3, "page")
	assert.False(t, ok)
}

func TestManager_Concurrent(t *testing.T) {
	sm := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sm.SetData(id, KeySearchQuery, "go")
			sm.SetState(id, StateAwaitingSpreadsheet)
			_ = sm.GetState(id)
			sm.ClearState(id)
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, StateNone, sm.GetState(int64(i)))
	}
}
