package rbtree

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/rbset/pkg/safeconv"
)

// ErrHibernated is returned when an operation needs a booted allocator.
var ErrHibernated = errors.New("allocator is hibernated")

// ErrNotHibernated is returned by Boot when there is nothing to restore.
var ErrNotHibernated = errors.New("allocator is not hibernated")

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// Columns compressed on hibernation: parent, left, right, color and the free list.
const (
	columnParent = iota
	columnLeft
	columnRight
	columnColor
	columnFree
	hibernatedColumns
)

// NodeID addresses a node inside an Allocator. Sentinel is the shared black leaf.
type NodeID uint32

const (
	// Sentinel is the shared black node standing in for every absent child.
	Sentinel NodeID = 0

	// noParent marks the root. It is distinct from the sentinel so the sentinel
	// never has to carry a parent link.
	noParent NodeID = math.MaxUint32
)

// Allocator is the node arena of one or more OrderedKeySet values.
// Slot 0 is the sentinel; it is colored black once and never written again.
type Allocator[K constraints.Ordered] struct {
	storage []node[K]
	gaps    []NodeID

	hibernatedKeys       []K
	hibernatedData       [hibernatedColumns][]byte
	hibernatedStorageLen int
	hibernatedFreeLen    int

	// HibernationThreshold is the minimal arena size Hibernate bothers to compress.
	HibernationThreshold int
}

// NewAllocator creates an empty arena holding only the sentinel.
func NewAllocator[K constraints.Ordered]() *Allocator[K] {
	return &Allocator[K]{
		storage: []node[K]{{parent: noParent, color: Black}},
		gaps:    []NodeID{},
	}
}

// Size returns the number of allocated slots, the sentinel included.
func (allocator *Allocator[K]) Size() int {
	if allocator.storage == nil {
		return allocator.hibernatedStorageLen
	}

	return len(allocator.storage)
}

// Used returns the number of live nodes.
func (allocator *Allocator[K]) Used() int {
	if allocator.storage == nil {
		return allocator.hibernatedStorageLen - allocator.hibernatedFreeLen - 1
	}

	return len(allocator.storage) - len(allocator.gaps) - 1
}

// Hibernated reports whether the link columns are currently compressed.
func (allocator *Allocator[K]) Hibernated() bool {
	return allocator.storage == nil
}

// StorageBytes estimates the in-memory footprint of the booted arena, keys excluded.
func (allocator *Allocator[K]) StorageBytes() int {
	return allocator.Size() * int(unsafe.Sizeof(node[K]{}))
}

// HibernatedBytes returns the total size of the compressed columns.
func (allocator *Allocator[K]) HibernatedBytes() int {
	total := 0

	for _, column := range allocator.hibernatedData {
		total += len(column)
	}

	return total
}

// Clone copies an existing allocator, nodes and free list included.
func (allocator *Allocator[K]) Clone() *Allocator[K] {
	if allocator.storage == nil {
		panic("cannot clone a hibernated allocator")
	}

	clone := &Allocator[K]{
		storage:              make([]node[K], len(allocator.storage), cap(allocator.storage)),
		gaps:                 make([]NodeID, len(allocator.gaps)),
		HibernationThreshold: allocator.HibernationThreshold,
	}
	copy(clone.storage, allocator.storage)
	copy(clone.gaps, allocator.gaps)

	return clone
}

// Hibernate compresses the link and color columns with LZ4. Keys stay as they are.
// Arenas smaller than HibernationThreshold are left untouched.
func (allocator *Allocator[K]) Hibernate() error {
	if allocator.storage == nil {
		return fmt.Errorf("hibernate: %w", ErrHibernated)
	}

	if len(allocator.storage) < allocator.HibernationThreshold {
		return nil
	}

	columns := [hibernatedColumns][]uint32{}
	for idx := range columnFree {
		columns[idx] = make([]uint32, len(allocator.storage))
	}

	keys := make([]K, len(allocator.storage))

	// Deinterleave for a better compression ratio.
	for idx, nd := range allocator.storage {
		keys[idx] = nd.key
		columns[columnParent][idx] = uint32(nd.parent)
		columns[columnLeft][idx] = uint32(nd.left)
		columns[columnRight][idx] = uint32(nd.right)

		if nd.color == Black {
			columns[columnColor][idx] = 1
		}
	}

	columns[columnFree] = make([]uint32, len(allocator.gaps))
	for idx, id := range allocator.gaps {
		columns[columnFree][idx] = uint32(id)
	}

	compressed := [hibernatedColumns][]byte{}
	errs := make([]error, hibernatedColumns)

	wg := &sync.WaitGroup{}
	wg.Add(hibernatedColumns)

	for idx := range columns {
		go func(colIdx int) {
			defer wg.Done()

			compressed[colIdx], errs[colIdx] = CompressUInt32Slice(columns[colIdx])
		}(idx)
	}

	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		return fmt.Errorf("hibernate: %w", err)
	}

	allocator.hibernatedData = compressed
	allocator.hibernatedKeys = keys
	allocator.hibernatedStorageLen = len(allocator.storage)
	allocator.hibernatedFreeLen = len(allocator.gaps)
	allocator.storage = nil
	allocator.gaps = nil

	return nil
}

// Boot performs the opposite of Hibernate.
func (allocator *Allocator[K]) Boot() error {
	if allocator.storage != nil {
		return fmt.Errorf("boot: %w", ErrNotHibernated)
	}

	columns := [hibernatedColumns][]uint32{}
	errs := make([]error, hibernatedColumns)

	wg := &sync.WaitGroup{}
	wg.Add(hibernatedColumns)

	for idx := range columns {
		go func(colIdx int) {
			defer wg.Done()

			length := allocator.hibernatedStorageLen
			if colIdx == columnFree {
				length = allocator.hibernatedFreeLen
			}

			columns[colIdx] = make([]uint32, length)
			errs[colIdx] = DecompressUInt32Slice(allocator.hibernatedData[colIdx], columns[colIdx])
		}(idx)
	}

	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	capSize := (allocator.hibernatedStorageLen * growCapacityNumerator) / growCapacityDenominator
	storage := make([]node[K], allocator.hibernatedStorageLen, capSize)

	for idx := range storage {
		nd := &storage[idx]
		nd.key = allocator.hibernatedKeys[idx]
		nd.parent = NodeID(columns[columnParent][idx])
		nd.left = NodeID(columns[columnLeft][idx])
		nd.right = NodeID(columns[columnRight][idx])
		nd.color = Color(columns[columnColor][idx] > 0)
	}

	gaps := make([]NodeID, allocator.hibernatedFreeLen)
	for idx, id := range columns[columnFree] {
		gaps[idx] = NodeID(id)
	}

	allocator.storage = storage
	allocator.gaps = gaps
	allocator.hibernatedKeys = nil
	allocator.hibernatedData = [hibernatedColumns][]byte{}
	allocator.hibernatedStorageLen = 0
	allocator.hibernatedFreeLen = 0

	return nil
}

func (allocator *Allocator[K]) malloc() NodeID {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	if last := len(allocator.gaps) - 1; last >= 0 {
		nodeIdx := allocator.gaps[last]
		allocator.gaps = allocator.gaps[:last]

		return nodeIdx
	}

	nodeLen := len(allocator.storage)
	if uint64(nodeLen) >= uint64(noParent) {
		// [math.MaxUint32] is reserved for noParent.
		panic("the node arena has reached the maximum value for uint32")
	}

	allocator.storage = append(allocator.storage, node[K]{})

	return NodeID(safeconv.MustIntToUint32(nodeLen))
}

func (allocator *Allocator[K]) free(nodeIdx NodeID) {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}

	if nodeIdx == Sentinel {
		panic("the sentinel is special and cannot be deallocated")
	}

	allocator.storage[nodeIdx] = node[K]{}
	allocator.gaps = append(allocator.gaps, nodeIdx)
}
