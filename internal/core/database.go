package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/vskvj3/geomys-list/internal/datastructures"
)

var (
	ErrEmptyKey        = errors.New("key cannot be empty")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrKeyNotFound     = errors.New("key not found")
	ErrWrongType       = errors.New("operation against a key holding the wrong kind of value")
	ErrNotInteger      = errors.New("value is not an integer")
	ErrOverflow        = errors.New("increment or decrement would overflow")
	ErrIndexOutOfRange = errors.New("index out of range")
)

type Database struct {
	mu     sync.Mutex
	store  map[string]string
	lists  map[string]*datastructures.List
	expiry map[string]int64

	// recency order of keys, least recently used first; nil when unbounded
	recency *datastructures.Deque[string]
	handles map[string]*datastructures.Node[string]
}

// Create a new database instance
func NewDatabase() *Database {
	return &Database{
		store:  make(map[string]string),
		lists:  make(map[string]*datastructures.List),
		expiry: make(map[string]int64),
	}
}

// NewBoundedDatabase creates a database holding at most maxKeys keys. When
// full, the least recently used key is evicted to make room.
func NewBoundedDatabase(maxKeys int) *Database {
	db := NewDatabase()
	if maxKeys > 0 {
		db.recency = datastructures.NewDeque[string](maxKeys)
		db.handles = make(map[string]*datastructures.Node[string])
	}
	return db
}

// Set stores a key-value pair in the database. A positive ttlMs expires
// the key that many milliseconds from now.
func (db *Database) Set(key, value string, ttlMs int64) error {
	var deadline int64
	if ttlMs > 0 {
		deadline = time.Now().UnixMilli() + ttlMs
	}
	return db.SetUntil(key, value, deadline)
}

// SetUntil stores a key-value pair that expires at deadline (unix ms).
// A zero deadline never expires; a deadline already passed removes the key.
func (db *Database) SetUntil(key, value string, deadline int64) error {
	// Validate inputs
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if deadline > 0 && time.Now().UnixMilli() > deadline {
		db.delete(key)
		return nil
	}

	if _, isList := db.lists[key]; isList {
		delete(db.lists, key)
	}
	db.store[key] = value
	db.touch(key)

	if deadline > 0 {
		db.expiry[key] = deadline
	} else {
		delete(db.expiry, key)
	}

	return nil
}

// Get retrieves the value associated with the given key
func (db *Database) Get(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	if _, isList := db.lists[key]; isList {
		return "", ErrWrongType
	}
	value, exists := db.store[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	db.touch(key)
	return value, nil
}

// Incr adds offset to the integer stored at key. A missing key counts as 0.
func (db *Database) Incr(key string, offset int) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	if _, isList := db.lists[key]; isList {
		return 0, ErrWrongType
	}

	var current int64
	if value, exists := db.store[key]; exists {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: %w", key, ErrNotInteger)
		}
		current = parsed
	}

	delta := int64(offset)
	if (delta > 0 && current > math.MaxInt64-delta) || (delta < 0 && current < math.MinInt64-delta) {
		return 0, fmt.Errorf("incr %s: %w", key, ErrOverflow)
	}
	current += delta
	db.store[key] = strconv.FormatInt(current, 10)
	db.touch(key)
	return current, nil
}

// Push appends value to the tail of the list at key, creating it if needed.
func (db *Database) Push(key, value string) error {
	return db.push(key, value, (*datastructures.List).RPush)
}

// LPush prepends value to the head of the list at key, creating it if needed.
func (db *Database) LPush(key, value string) error {
	return db.push(key, value, (*datastructures.List).LPush)
}

func (db *Database) push(key, value string, add func(*datastructures.List, interface{})) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	if _, isString := db.store[key]; isString {
		return ErrWrongType
	}
	list, exists := db.lists[key]
	if !exists {
		list = datastructures.NewList()
		db.lists[key] = list
	}
	add(list, value)
	db.touch(key)
	return nil
}

// Lpop removes and returns the head of the list at key.
func (db *Database) Lpop(key string) (string, error) {
	return db.pop(key, (*datastructures.List).LPop)
}

// Rpop removes and returns the tail of the list at key.
func (db *Database) Rpop(key string) (string, error) {
	return db.pop(key, (*datastructures.List).RPop)
}

func (db *Database) pop(key string, take func(*datastructures.List) (interface{}, error)) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	list, err := db.list(key)
	if err != nil {
		return "", err
	}
	value, err := take(list)
	if err != nil {
		return "", fmt.Errorf("pop %s: %w", key, err)
	}
	if list.Len() == 0 {
		db.delete(key)
	} else {
		db.touch(key)
	}
	return value.(string), nil
}

// LRange returns the elements of the list at key between start and stop inclusive.
func (db *Database) LRange(key string, start, stop int) ([]string, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	list, err := db.list(key)
	if errors.Is(err, ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := list.Range(start, stop)
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, v.(string))
	}
	db.touch(key)
	return result, nil
}

// LIndex returns the element at index of the list at key. Negative indices
// count from the tail.
func (db *Database) LIndex(key string, index int) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	list, err := db.list(key)
	if err != nil {
		return "", err
	}
	value, ok := list.Index(index)
	if !ok {
		return "", ErrIndexOutOfRange
	}
	db.touch(key)
	return value.(string), nil
}

// LLen returns the length of the list at key; missing keys have length 0.
func (db *Database) LLen(key string) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.expireIfDue(key)

	list, err := db.list(key)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return list.Len(), nil
}

// Keys returns the number of live keys.
func (db *Database) Keys() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.store) + len(db.lists)
}

// StartCleanup purges expired keys every interval until ctx is done.
func (db *Database) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			db.mu.Lock()
			now := time.Now().UnixMilli()
			for key, expiry := range db.expiry {
				if now > expiry {
					db.delete(key)
				}
			}
			db.mu.Unlock()
		}
	}()
}

// list must be called with db.mu held.
func (db *Database) list(key string) (*datastructures.List, error) {
	if _, isString := db.store[key]; isString {
		return nil, ErrWrongType
	}
	list, exists := db.lists[key]
	if !exists {
		return nil, ErrKeyNotFound
	}
	return list, nil
}

func (db *Database) expireIfDue(key string) {
	if expiry, ok := db.expiry[key]; ok && time.Now().UnixMilli() > expiry {
		db.delete(key)
	}
}

func (db *Database) delete(key string) {
	delete(db.store, key)
	delete(db.lists, key)
	delete(db.expiry, key)
	if db.recency == nil {
		return
	}
	if n, ok := db.handles[key]; ok {
		db.recency.Remove(n)
		delete(db.handles, key)
	}
}

// touch marks key as most recently used, evicting the least recently used
// key when the database is full.
func (db *Database) touch(key string) {
	if db.recency == nil {
		return
	}
	if n, ok := db.handles[key]; ok {
		db.recency.MoveToBack(n)
		return
	}
	if db.recency.Size() == db.recency.Capacity() {
		oldest, _ := db.recency.Front()
		db.delete(oldest)
	}
	n, _ := db.recency.PushBack(key)
	db.handles[key] = n
}
