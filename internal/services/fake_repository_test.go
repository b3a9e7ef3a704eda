package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
// Transactions run against the same store without rollback.
type fakeRepository struct {
	mu         sync.Mutex
	users      map[string]*models.User
	devices    map[string]*models.Device
	tombstones []*models.DeletedUser
	history    []*models.RentalHistory

	// failClaim makes every claim lose, simulating a concurrent winner.
	failClaim bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:   make(map[string]*models.User),
		devices: make(map[string]*models.Device),
	}
}

func (r *fakeRepository) User() repositories.UserRepository               { return &fakeUserRepo{r} }
func (r *fakeRepository) DeletedUser() repositories.DeletedUserRepository { return &fakeDeletedUserRepo{r} }
func (r *fakeRepository) Device() repositories.DeviceRepository           { return &fakeDeviceRepo{r} }
func (r *fakeRepository) RentalHistory() repositories.RentalHistoryRepository {
	return &fakeHistoryRepo{r}
}

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneDevice(d *models.Device) *models.Device {
	c := *d
	if d.RenterID != nil {
		id := *d.RenterID
		c.RenterID = &id
	}
	if d.RentedAt != nil {
		at := *d.RentedAt
		c.RentedAt = &at
	}
	return &c
}

type fakeUserRepo struct{ r *fakeRepository }

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.users[user.ID]; ok {
		return fmt.Errorf("duplicate user %s", user.ID)
	}
	f.r.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	u, ok := f.r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) GetWithCredentials(ctx context.Context, id string) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	_, ok := f.r.users[id]
	return ok, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.r.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.r.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.User
	for _, u := range f.r.users {
		if filters.Pending != nil && u.IsPending != *filters.Pending {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type fakeDeletedUserRepo struct{ r *fakeRepository }

func (f *fakeDeletedUserRepo) Create(ctx context.Context, tombstone *models.DeletedUser) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	c := *tombstone
	f.r.tombstones = append(f.r.tombstones, &c)
	return nil
}

func (f *fakeDeletedUserRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var kept []*models.DeletedUser
	var purged int64
	for _, t := range f.r.tombstones {
		if t.DeletedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, t)
	}
	f.r.tombstones = kept
	return purged, nil
}

type fakeDeviceRepo struct{ r *fakeRepository }

func (f *fakeDeviceRepo) Create(ctx context.Context, device *models.Device) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.devices[device.SerialNumber]; ok {
		return fmt.Errorf("duplicate device %s", device.SerialNumber)
	}
	f.r.devices[device.SerialNumber] = cloneDevice(device)
	return nil
}

func (f *fakeDeviceRepo) GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	d, ok := f.r.devices[serialNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneDevice(d), nil
}

func (f *fakeDeviceRepo) Exists(ctx context.Context, serialNumber string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	_, ok := f.r.devices[serialNumber]
	return ok, nil
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, serialNumber string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if _, ok := f.r.devices[serialNumber]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.r.devices, serialNumber)
	return nil
}

func (f *fakeDeviceRepo) UpdateStatus(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	d, ok := f.r.devices[serialNumber]
	if !ok {
		return repositories.ErrNotFound
	}
	d.Status = status
	d.StatusReason = reason
	return nil
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]*models.Device, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Device
	for _, d := range f.r.devices {
		out = append(out, cloneDevice(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, nil
}

func (f *fakeDeviceRepo) ListAvailable(ctx context.Context) ([]*models.Device, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var out []*models.Device
	for _, d := range f.r.devices {
		if d.Rentable() {
			out = append(out, cloneDevice(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, nil
}

func (f *fakeDeviceRepo) Claim(ctx context.Context, serialNumber string, renter repositories.RenterInfo, rentedAt time.Time, remark string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if f.r.failClaim {
		return false, nil
	}
	d, ok := f.r.devices[serialNumber]
	if !ok || !d.Rentable() {
		return false, nil
	}
	id := renter.ID
	at := rentedAt
	d.RenterID = &id
	d.RenterName = renter.Name
	d.RenterAffiliation = renter.Affiliation
	d.RentedAt = &at
	d.Remark = remark
	return true, nil
}

func (f *fakeDeviceRepo) Release(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	d, ok := f.r.devices[serialNumber]
	if !ok || !d.Rented() {
		return repositories.ErrNotFound
	}
	d.RenterID = nil
	d.RenterName = ""
	d.RenterAffiliation = ""
	d.RentedAt = nil
	d.Remark = ""
	d.Status = status
	d.StatusReason = reason
	return nil
}

type fakeHistoryRepo struct{ r *fakeRepository }

func (f *fakeHistoryRepo) Append(ctx context.Context, entry *models.RentalHistory) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	c := *entry
	c.ID = uint(len(f.r.history) + 1)
	f.r.history = append(f.r.history, &c)
	return nil
}

func (f *fakeHistoryRepo) List(ctx context.Context, filters repositories.HistoryFilters) ([]*models.RentalHistory, int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	var filtered []*models.RentalHistory
	for _, h := range f.r.history {
		if filters.SerialNumber != "" && h.SerialNumber != filters.SerialNumber {
			continue
		}
		if filters.UserID != "" && h.UserID != filters.UserID {
			continue
		}
		if filters.From != nil && h.Timestamp.Before(*filters.From) {
			continue
		}
		if filters.To != nil && !h.Timestamp.Before(*filters.To) {
			continue
		}
		c := *h
		filtered = append(filtered, &c)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Timestamp.After(filtered[j].Timestamp) })

	total := int64(len(filtered))
	if filters.Offset > 0 {
		if filters.Offset >= len(filtered) {
			filtered = nil
		} else {
			filtered = filtered[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(filtered) {
		filtered = filtered[:filters.Limit]
	}
	return filtered, total, nil
}
