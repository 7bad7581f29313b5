package viewmodel

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/furs-app/backend/internal/models"
)

// AddressFallback is shown when a reverse-geocode lookup fails. Lookup
// failures never fail the batch.
const AddressFallback = "Address unavailable"

// FeedItem is a report merged with per-viewer derived state and the
// asynchronously resolved address.
type FeedItem struct {
	models.Post
	IsLikedByViewer bool   `json:"is_liked_by_viewer"`
	Address         string `json:"address,omitempty"`
}

// LikeChecker performs the per-item like point-read. Known fan-out ceiling
// at large list sizes; kept behind this seam so a batched existence query
// can replace it without touching the list logic.
type LikeChecker interface {
	HasUserLikedPost(ctx context.Context, postID, userUID string) (bool, error)
}

// AddressResolver turns coordinates into a display string
type AddressResolver interface {
	ResolveAddress(ctx context.Context, lat, lng float64) (string, error)
}

// LiveList maintains an ordered, enriched view of the report feed for one
// viewer. It consumes full snapshots from a store subscription, enriches
// each one (viewer like flags, then reverse-geocoded addresses in
// parallel), and publishes the result atomically. Snapshot passes are
// serialized by last-snapshot-wins: a pass that was superseded before its
// enrichment finished discards its result instead of publishing.
type LiveList struct {
	likes     LikeChecker
	resolver  AddressResolver
	viewerUID string // empty for anonymous viewers; no like point-reads then

	mu     sync.Mutex
	items  []FeedItem
	gen    uint64
	subs   map[chan []FeedItem]struct{}
	closed bool
}

// NewLiveList creates a LiveList for the given viewer. viewerUID may be
// empty for unauthenticated viewers.
func NewLiveList(likes LikeChecker, resolver AddressResolver, viewerUID string) *LiveList {
	return &LiveList{
		likes:     likes,
		resolver:  resolver,
		viewerUID: viewerUID,
		subs:      make(map[chan []FeedItem]struct{}),
	}
}

// Run consumes snapshots until the channel closes or ctx is cancelled.
// Each snapshot starts its own enrichment pass; passes may overlap, but
// only the latest generation publishes. Run blocks; callers start it in a
// goroutine and tear it down by cancelling ctx.
func (l *LiveList) Run(ctx context.Context, snapshots <-chan []models.Post) {
	var wg sync.WaitGroup
	defer wg.Wait()
	defer l.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case posts, ok := <-snapshots:
			if !ok {
				return
			}
			l.mu.Lock()
			l.gen++
			gen := l.gen
			l.mu.Unlock()

			wg.Add(1)
			go func() {
				defer wg.Done()
				l.applySnapshot(ctx, gen, posts)
			}()
		}
	}
}

// applySnapshot builds one snapshot and publishes it, unless it was
// superseded meanwhile.
func (l *LiveList) applySnapshot(ctx context.Context, gen uint64, posts []models.Post) {
	items := l.BuildSnapshot(ctx, posts)
	if ctx.Err() != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen {
		// Superseded by a later snapshot or a torn-down view; discard.
		return
	}
	l.items = items
	l.broadcastLocked()
}

// BuildSnapshot maps and enriches one result set without publishing it.
// Also used directly for the one-shot feed endpoint.
func (l *LiveList) BuildSnapshot(ctx context.Context, posts []models.Post) []FeedItem {
	items := make([]FeedItem, len(posts))
	for i, p := range posts {
		items[i] = FeedItem{Post: p}
	}

	// Per-viewer like flags. A failed point-read just leaves the flag
	// unset; it must not sink the snapshot.
	if l.viewerUID != "" && l.likes != nil {
		for i := range items {
			liked, err := l.likes.HasUserLikedPost(ctx, items[i].ID.Hex(), l.viewerUID)
			if err != nil {
				if ctx.Err() != nil {
					return items
				}
				log.Printf("like point-read failed for post %s: %v", items[i].ID.Hex(), err)
				continue
			}
			items[i].IsLikedByViewer = liked
		}
	}

	l.enrichAddresses(ctx, items)

	// Defensive re-sort: the query already orders by creation time, but a
	// pending write may not carry a resolved timestamp yet. Those sort as
	// "now"; resolved items keep their relative order (stable).
	now := time.Now()
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].CreatedAt, items[j].CreatedAt
		if ti.IsZero() {
			ti = now
		}
		if tj.IsZero() {
			tj = now
		}
		return ti.After(tj)
	})

	return items
}

// enrichAddresses issues one reverse-geocode lookup per located item, all
// in parallel. Results merge back by post id, so the merge stays correct
// even though lookups complete in any order.
func (l *LiveList) enrichAddresses(ctx context.Context, items []FeedItem) {
	if l.resolver == nil {
		return
	}

	type result struct {
		id      string
		address string
	}

	var wg sync.WaitGroup
	results := make(chan result, len(items))
	for i := range items {
		loc := items[i].Location
		if loc == nil {
			continue
		}
		wg.Add(1)
		go func(id string, lat, lng float64) {
			defer wg.Done()
			address, err := l.resolver.ResolveAddress(ctx, lat, lng)
			if err != nil {
				address = AddressFallback
			}
			results <- result{id: id, address: address}
		}(items[i].ID.Hex(), loc.Lat, loc.Lng)
	}
	wg.Wait()
	close(results)

	byID := make(map[string]string, len(items))
	for res := range results {
		byID[res.id] = res.address
	}
	for i := range items {
		if address, ok := byID[items[i].ID.Hex()]; ok {
			items[i].Address = address
		}
	}
}

// Items returns a copy of the currently published list
func (l *LiveList) Items() []FeedItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]FeedItem, len(l.items))
	copy(out, l.items)
	return out
}

// Subscribe registers a listener for published lists. The current list is
// delivered immediately. Slow consumers only ever miss intermediate
// states: stale pending deliveries are replaced by the newest one. The
// returned cancel func must be called on teardown.
func (l *LiveList) Subscribe() (<-chan []FeedItem, func()) {
	ch := make(chan []FeedItem, 1)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	l.subs[ch] = struct{}{}
	ch <- l.snapshotLocked()
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[ch]; ok {
			delete(l.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// RemovePost optimistically drops a report from the published list without
// waiting for the next store snapshot. The following snapshot confirms the
// absence (or restores the item if the remote delete failed).
func (l *LiveList) RemovePost(postID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	kept := l.items[:0:0]
	for _, item := range l.items {
		if item.ID.Hex() != postID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(l.items) {
		return
	}
	l.items = kept
	l.broadcastLocked()
}

// SetLiked optimistically patches the viewer's like state and the counter
// for one report. The next snapshot re-delivers the server truth.
func (l *LiveList) SetLiked(postID string, liked bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	for i := range l.items {
		if l.items[i].ID.Hex() != postID || l.items[i].IsLikedByViewer == liked {
			continue
		}
		l.items[i].IsLikedByViewer = liked
		if liked {
			l.items[i].LikesCount++
		} else if l.items[i].LikesCount > 0 {
			l.items[i].LikesCount--
		}
		l.broadcastLocked()
		return
	}
}

// Close tears the list down: subscribers are closed and any in-flight
// enrichment pass discards its result on completion.
func (l *LiveList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for ch := range l.subs {
		close(ch)
	}
	l.subs = nil
}

func (l *LiveList) snapshotLocked() []FeedItem {
	out := make([]FeedItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *LiveList) broadcastLocked() {
	for ch := range l.subs {
		// Replace a stale undelivered list rather than blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- l.snapshotLocked():
		default:
		}
	}
}
