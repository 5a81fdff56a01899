package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/domain/entity"
)

func TestActivePanes_Lifecycle(t *testing.T) {
	registry := usecase.NewActivePanes()
	assert.False(t, registry.Registered())
	assert.Empty(t, registry.Snapshot())

	registry.Register()
	assert.True(t, registry.Registered())

	list := entity.FlatPaneList{{ID: "root"}, {ID: "a"}}
	registry.Set(list)
	assert.Equal(t, []string{"root", "a"}, registry.Snapshot().IDs())

	registry.Unregister()
	assert.False(t, registry.Registered())
	assert.Empty(t, registry.Snapshot())
}

func TestActivePanes_SetReplacesWholesale(t *testing.T) {
	registry := usecase.NewActivePanes()
	registry.Set(entity.FlatPaneList{{ID: "root"}, {ID: "a"}, {ID: "b"}})
	registry.Set(entity.FlatPaneList{{ID: "root"}})

	assert.Equal(t, []string{"root"}, registry.Snapshot().IDs())
}

func TestActivePanes_SnapshotIsACopy(t *testing.T) {
	registry := usecase.NewActivePanes()
	list := entity.FlatPaneList{{ID: "root"}, {ID: "a"}}
	registry.Set(list)

	list[1] = &entity.Node{ID: "changed"}
	snap := registry.Snapshot()
	snap[0] = nil

	assert.Equal(t, []string{"root", "a"}, registry.Snapshot().IDs())
}
