package settings

import (
	"context"
	"errors"
	"net/mail"
	"sync"
	"time"
)

var (
	// errors
	ErrNotFound     = errors.New("configurações não encontradas")
	ErrStaleVersion = errors.New("as configurações foram alteradas por outra pessoa, recarregue antes de salvar")
)

type (
	Repository interface {
		// GetSettings returns ErrNotFound until the first save.
		GetSettings(ctx context.Context) (Settings, error)
		// SaveSettings stores s only if the stored version is still prevVersion (0: nothing stored yet).
		// It returns ErrStaleVersion otherwise.
		SaveSettings(ctx context.Context, s Settings, prevVersion int) (Settings, error)
	}

	// Service keeps the current record in memory; it is loaded once and refreshed on every save.
	Service struct {
		repo Repository

		mu      sync.RWMutex
		current Settings
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, current: Defaults()}
}

// Load reads the stored record, storing the defaults on first start.
func (svc *Service) Load(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	s, err := svc.repo.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		s = Defaults()
		s.Version = 1
		s.UpdatedAt = time.Now().UTC()
		s, err = svc.repo.SaveSettings(ctx, s, 0)
	}
	if err != nil {
		return err
	}
	svc.current = s
	return nil
}

func (svc *Service) Current() Settings {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.current
}

// Save replaces the record. s.Version must be the version the caller read.
func (svc *Service) Save(ctx context.Context, s Settings) (Settings, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	prev := s.Version
	if prev != svc.current.Version {
		return Settings{}, ErrStaleVersion
	}
	s.Version = prev + 1
	s.UpdatedAt = time.Now().UTC()

	saved, err := svc.repo.SaveSettings(ctx, s, prev)
	if err != nil {
		return Settings{}, err
	}
	svc.current = saved
	return saved, nil
}

func (svc *Service) SchoolName() string {
	return svc.Current().SchoolName
}

func (svc *Service) AlertRecipient() (mail.Address, bool) {
	cur := svc.Current()
	if cur.NotificationEmail == "" {
		return mail.Address{}, false
	}
	return mail.Address{Name: cur.OfficerName, Address: cur.NotificationEmail}, true
}
