package participant

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Repo is the remote participant store. Firestore assigns the IDs and is the
// single source of truth; the in-process cache only mirrors it.
type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.fs.Collection("participants")
}

// Create stores a new participant and returns it with the generated ID.
func (r *Repo) Create(ctx context.Context, p Participant) (*Participant, error) {
	ref := r.col().NewDoc()
	if _, err := ref.Set(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	p.ID = ref.ID
	return &p, nil
}

// Set writes the full record. Partial merges are deliberately not used:
// assignments are nested arrays and the write model is last-write-wins per
// record.
func (r *Repo) Set(ctx context.Context, id string, p Participant) error {
	if _, err := r.col().Doc(id).Set(ctx, p); err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Participant, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, id)
	}
	var p Participant
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to parse participant: %w", err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]Participant, error) {
	iter := r.col().Documents(ctx)
	defer iter.Stop()

	var out []Participant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate participants: %w", err)
		}
		var p Participant
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		p.ID = doc.Ref.ID
		out = append(out, p)
	}
	if out == nil {
		out = []Participant{}
	}
	return out, nil
}

// Subscribe streams full collection snapshots until ctx is cancelled. Every
// remote change delivers the complete current collection to fn.
func (r *Repo) Subscribe(ctx context.Context, fn func([]Participant)) error {
	snaps := r.col().Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("participant subscription failed: %w", err)
		}

		out := []Participant{}
		for {
			doc, err := snap.Documents.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read participant snapshot: %w", err)
			}
			var p Participant
			if err := doc.DataTo(&p); err != nil {
				continue
			}
			p.ID = doc.Ref.ID
			out = append(out, p)
		}
		fn(out)
	}
}
