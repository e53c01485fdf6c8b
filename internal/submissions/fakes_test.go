package submissions_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/users"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const viewBase = "https://files.example.edu/api/storage"

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*users.User
}

func newFakeUsers(list ...users.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*users.User)}
	for i := range list {
		u := list[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Find(_ context.Context, id int64) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByCode(_ context.Context, code string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Code == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) EnsureContainer(ctx context.Context, id int64, provision users.Provisioner) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return "", false, users.ErrNotFound
	}
	if u.ContainerRef != nil {
		return *u.ContainerRef, false, nil
	}
	ref, err := provision(ctx, *u)
	if err != nil {
		return "", false, err
	}
	u.ContainerRef = &ref
	return ref, true, nil
}

type pairKey struct{ user, doc int64 }

type fakeDocuments struct {
	documents.System

	mu         sync.Mutex
	rows       map[pairKey]*documents.UserDocument
	recordErr  error
	recordHits int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{rows: make(map[pairKey]*documents.UserDocument)}
}

func (f *fakeDocuments) Find(_ context.Context, userID, documentID int64) (*documents.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[pairKey{userID, documentID}]
	if !ok {
		return nil, documents.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocuments) CheckTransition(from, to documents.State) error {
	return nil
}

func (f *fakeDocuments) RecordUpload(_ context.Context, rec documents.UploadRecord) (*documents.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordHits++

	if f.recordErr != nil {
		return nil, f.recordErr
	}

	key := pairKey{rec.UserID, rec.DocumentID}
	row, ok := f.rows[key]
	if rec.PreviousRef != nil {
		if !ok || row.ObjectRef == nil || *row.ObjectRef != *rec.PreviousRef {
			return nil, documents.ErrRefMismatch
		}
	}
	if !ok {
		row = &documents.UserDocument{UserID: rec.UserID, DocumentID: rec.DocumentID, CreatedAt: time.Now()}
		f.rows[key] = row
	}

	ref, link := rec.ObjectRef, rec.Link
	row.ObjectRef = &ref
	row.Link = &link
	row.PageCount = rec.PageCount
	row.State = documents.Uploaded
	row.UpdatedAt = time.Now()

	cp := *row
	return &cp, nil
}

type fakeStore struct {
	storage.System

	mu          sync.Mutex
	containers  map[string]bool
	objects     map[storage.ObjectRef][]byte
	containerN  int
	writes      int
	seq         int
	createErr   error
	deletedRefs []storage.ObjectRef
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		containers: make(map[string]bool),
		objects:    make(map[storage.ObjectRef][]byte),
	}
}

func (f *fakeStore) CreateContainer(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containerN++
	f.containers[name] = true
	return name, nil
}

func (f *fakeStore) CreateObject(_ context.Context, container, filename string, data []byte, _ string) (storage.ObjectRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return storage.ObjectRef{}, f.createErr
	}
	if !f.containers[container] {
		return storage.ObjectRef{}, fmt.Errorf("container %s does not exist", container)
	}
	f.seq++
	f.writes++
	ref := storage.ObjectRef{Container: container, Object: fmt.Sprintf("obj%d-%s", f.seq, filename)}
	f.objects[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (f *fakeStore) UpdateObject(_ context.Context, ref storage.ObjectRef, data []byte, _ string) (storage.ObjectRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[ref]; !ok {
		return storage.ObjectRef{}, storage.ErrNotFound
	}
	f.writes++
	f.objects[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (f *fakeStore) Delete(_ context.Context, ref storage.ObjectRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, ref)
	f.deletedRefs = append(f.deletedRefs, ref)
	return nil
}

func (f *fakeStore) Link(ref storage.ObjectRef) string {
	return storage.BuildLink(viewBase, ref)
}
