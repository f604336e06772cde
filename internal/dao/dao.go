// Package dao persists licenses, agent findings, decision events and clearing decisions.
package dao

import (
	"sync"

	"github.com/huangsam/clearance/internal/contract"
)

// ClearingStoreManager holds the clearing store used by the commands.
type ClearingStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.ClearingStore
}

var _ contract.StoreManager = &ClearingStoreManager{} // Compile-time check

// GetClearingStore returns the ClearingStore.
func (mgr *ClearingStoreManager) GetClearingStore() contract.ClearingStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
