package remote

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vocabulous/vocabulous/internal/model"
)

// usersCollection is the root collection; each user's data lives under
// users/{uid}/{kind}.
const usersCollection = "users"

// FirestoreNamespace stores one user's documents in Cloud Firestore.
type FirestoreNamespace struct {
	client *firestore.Client
	userID string
}

// OpenFirestore connects to projectID and returns the namespace of userID.
// The client honours FIRESTORE_EMULATOR_HOST. Close releases the client.
func OpenFirestore(ctx context.Context, projectID, userID string) (*FirestoreNamespace, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: firestore project id is required", model.ErrInvalidInput)
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, &ErrUnavailable{Op: "connect", Err: err}
	}
	return NewFirestoreNamespace(client, userID), nil
}

// NewFirestoreNamespace wraps an existing client. Close closes client.
func NewFirestoreNamespace(client *firestore.Client, userID string) *FirestoreNamespace {
	return &FirestoreNamespace{client: client, userID: userID}
}

func (n *FirestoreNamespace) UserID() string { return n.userID }

func (n *FirestoreNamespace) col(kind model.Kind) *firestore.CollectionRef {
	return n.client.Collection(usersCollection).Doc(n.userID).Collection(kind.String())
}

func (n *FirestoreNamespace) List(ctx context.Context, kind model.Kind) ([]Document, error) {
	it := n.col(kind).Documents(ctx)
	defer it.Stop()

	var docs []Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrapErr("list "+kind.String(), err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (n *FirestoreNamespace) Probe(ctx context.Context, kind model.Kind) (bool, error) {
	it := n.col(kind).Limit(1).Documents(ctx)
	defer it.Stop()

	_, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("probe "+kind.String(), err)
	}
	return true, nil
}

func (n *FirestoreNamespace) Get(ctx context.Context, kind model.Kind, id string) (Document, error) {
	snap, err := n.col(kind).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
		}
		return Document{}, wrapErr("get "+kind.String(), err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (n *FirestoreNamespace) Set(ctx context.Context, kind model.Kind, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document without id in %s", model.ErrInvalidInput, kind)
	}
	if _, err := n.col(kind).Doc(doc.ID).Set(ctx, doc.Data); err != nil {
		return wrapErr("set "+kind.String(), err)
	}
	return nil
}

// SetAll commits each chunk of documents in one transaction.
func (n *FirestoreNamespace) SetAll(ctx context.Context, kind model.Kind, docs []Document) error {
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("%w: document without id in %s", model.ErrInvalidInput, kind)
		}
	}
	col := n.col(kind)
	for _, chunk := range chunks(docs, MaxBatchWrites) {
		err := n.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, d := range chunk {
				if err := tx.Set(col.Doc(d.ID), d.Data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return wrapErr("set "+kind.String(), err)
		}
	}
	return nil
}

func (n *FirestoreNamespace) Delete(ctx context.Context, kind model.Kind, id string) error {
	if _, err := n.col(kind).Doc(id).Delete(ctx); err != nil {
		return wrapErr("delete "+kind.String(), err)
	}
	return nil
}

func (n *FirestoreNamespace) DeleteAll(ctx context.Context, kind model.Kind) error {
	it := n.col(kind).DocumentRefs(ctx)
	var refs []*firestore.DocumentRef
	for {
		ref, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return wrapErr("delete "+kind.String(), err)
		}
		refs = append(refs, ref)
	}

	for _, chunk := range chunks(refs, MaxBatchWrites) {
		err := n.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, ref := range chunk {
				if err := tx.Delete(ref); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return wrapErr("delete "+kind.String(), err)
		}
	}
	return nil
}

func (n *FirestoreNamespace) Close() error {
	return n.client.Close()
}

// wrapErr marks transport-level failures as ErrUnavailable and passes
// everything else through with context.
func wrapErr(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return &ErrUnavailable{Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ErrUnavailable{Op: op, Err: err}
	}
	return fmt.Errorf("remote %s: %w", op, err)
}
