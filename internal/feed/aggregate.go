package feed

import "time"

// Item is the derived per-record view model. Everything except the read
// state on the underlying Record is immutable for one aggregation pass.
type Item struct {
	Record *Record

	// Title is the record title, falling back to the type label when empty.
	Title    string
	Label    string
	Icon     string
	Category Category
	Class    Classification

	// Blob is the normalized searchable text (title + body + label).
	Blob string
}

// Unread reports the live read state of the underlying record.
func (it *Item) Unread() bool {
	return !it.Record.Read
}

// Bucket groups the items of one calendar day (or the unknown bucket).
// Item order inside a bucket is input order.
type Bucket struct {
	Key       string
	Label     string
	Tag       DayTag
	DateLabel string
	Items     []*Item
}

// Summary holds the derived aggregate counts. Always recomputed from the
// current record set, never stored independently.
type Summary struct {
	Unread int `json:"unread"`
	Today  int `json:"today"`
	Week   int `json:"week"`
	Total  int `json:"total"`
}

// Feed is the bucketed view of one page of records.
type Feed struct {
	// Buckets in first-seen day-key order. The input is newest-first, so
	// this is a stable partition of the input order, not a re-sort.
	Buckets []*Bucket
	// Items flat, in input order.
	Items []*Item

	byID map[int64]*Item
}

// Aggregate classifies and indexes records into day buckets. Records are
// consumed in the order given. It never fails; empty input yields an empty
// feed.
func Aggregate(records []*Record, now time.Time) *Feed {
	f := &Feed{
		Items: make([]*Item, 0, len(records)),
		byID:  make(map[int64]*Item, len(records)),
	}
	buckets := make(map[string]*Bucket, 8)

	for _, rec := range records {
		pres := PresentationFor(rec.Type)
		title := rec.Title
		if title == "" {
			title = pres.Label
		}

		item := &Item{
			Record:   rec,
			Title:    title,
			Label:    pres.Label,
			Icon:     pres.Icon,
			Category: CategoryFor(rec.Type),
			Class:    Classify(rec.CreatedAt, now),
			Blob:     SearchBlob(title, rec.Body, pres.Label),
		}

		bucket, ok := buckets[item.Class.BucketKey]
		if !ok {
			bucket = &Bucket{
				Key:       item.Class.BucketKey,
				Label:     item.Class.Label,
				Tag:       item.Class.Tag,
				DateLabel: item.Class.DateLabel,
			}
			buckets[bucket.Key] = bucket
			f.Buckets = append(f.Buckets, bucket)
		}
		bucket.Items = append(bucket.Items, item)

		f.Items = append(f.Items, item)
		f.byID[rec.ID] = item
	}

	return f
}

// ItemByID looks up an item by record id.
func (f *Feed) ItemByID(id int64) (*Item, bool) {
	item, ok := f.byID[id]
	return item, ok
}

// Summary recomputes the aggregate counts from the current record set.
// The week count includes today's records, counted once each.
func (f *Feed) Summary() Summary {
	var s Summary
	s.Total = len(f.Items)
	for _, item := range f.Items {
		if item.Unread() {
			s.Unread++
		}
		if item.Class.Tag == DayToday {
			s.Today++
		}
		if item.Class.WithinWeek {
			s.Week++
		}
	}
	return s
}
