package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
	repo "github.com/oksasatya/go-places-api/internal/domain/repository"
	"github.com/oksasatya/go-places-api/pkg/metrics"
)

const defaultStoreTimeout = 5 * time.Second

var (
	errNoUser  = apperror.NotFound("could not find user for the provided id")
	errNoPlace = apperror.NotFound("could not find a place for the provided id")
)

// PlaceService keeps places and their creators' place sets consistent.
type PlaceService struct {
	Users     repo.UserRepository
	Places    repo.PlaceRepository
	Tx        repo.Transactor
	Geocoder  Geocoder
	Index     PlaceIndex // optional
	Resources *ResourceManager
	Logger    *logrus.Logger

	// StoreTimeout bounds every store call and transaction.
	StoreTimeout time.Duration
}

func NewPlaceService(users repo.UserRepository, places repo.PlaceRepository, tx repo.Transactor, geo Geocoder, index PlaceIndex, resources *ResourceManager, logger *logrus.Logger, storeTimeout time.Duration) *PlaceService {
	return &PlaceService{
		Users:        users,
		Places:       places,
		Tx:           tx,
		Geocoder:     geo,
		Index:        index,
		Resources:    resources,
		Logger:       logger,
		StoreTimeout: storeTimeout,
	}
}

type CreatePlaceInput struct {
	CreatorID   string
	Title       string
	Description string
	Address     string
	Image       *PendingFile
}

type UpdatePlaceInput struct {
	Title       string
	Description string
}

func (s *PlaceService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	d := s.StoreTimeout
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr maps a repository error onto the taxonomy.
func storeErr(err error, notFound *apperror.Error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return notFound
	case errors.Is(err, repo.ErrConflict):
		return apperror.Conflict("resource already exists")
	default:
		return apperror.Unavailable(err)
	}
}

func (s *PlaceService) logFailure(err error, op string, fields logrus.Fields) {
	if s.Logger == nil || apperror.KindOf(err) != apperror.KindUnavailable {
		return
	}
	s.Logger.WithError(errors.Unwrap(err)).WithFields(fields).WithField("op", op).Error("place operation failed")
}

// CreatePlace geocodes the address, then inserts the place and links it to
// its creator in one unit of work. The image is kept only when the unit
// commits; every failure path removes it.
func (s *PlaceService) CreatePlace(ctx context.Context, in CreatePlaceInput) (p *entity.Place, err error) {
	defer func() {
		if err != nil {
			in.Image.Rollback(ctx)
		}
		metrics.PlaceMutations.WithLabelValues("create", metrics.Outcome(err)).Inc()
		s.logFailure(err, "create", logrus.Fields{"creator_id": in.CreatorID})
	}()

	c, cancel := s.storeCtx(ctx)
	creator, err := s.Users.GetByID(c, in.CreatorID)
	cancel()
	if err != nil {
		return nil, storeErr(err, errNoUser)
	}

	loc, err := s.Geocoder.Geocode(ctx, in.Address)
	if err != nil {
		return nil, apperror.UpstreamGeocode(err)
	}

	place := &entity.Place{
		CreatorID:   creator.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		ImagePath:   in.Image.Path(),
		Location:    loc,
	}
	c, cancel = s.storeCtx(ctx)
	defer cancel()
	err = s.Tx.WithinTx(c, func(ctx context.Context, repos repo.Repositories) error {
		if err := repos.Places.Create(ctx, place); err != nil {
			return err
		}
		return repos.Users.AddPlace(ctx, creator.ID, place.ID)
	})
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	in.Image.Commit()
	s.index(ctx, place)
	return place, nil
}

// UpdatePlace changes title and description. Existence is checked before ownership.
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID, requesterID string, in UpdatePlaceInput) (p *entity.Place, err error) {
	defer func() {
		metrics.PlaceMutations.WithLabelValues("update", metrics.Outcome(err)).Inc()
		s.logFailure(err, "update", logrus.Fields{"place_id": placeID})
	}()

	c, cancel := s.storeCtx(ctx)
	defer cancel()
	place, err := s.Places.GetByID(c, placeID)
	if err != nil {
		return nil, storeErr(err, errNoPlace)
	}
	if err := Authorize(requesterID, place, "edit"); err != nil {
		return nil, err
	}
	place.Title = strings.TrimSpace(in.Title)
	place.Description = strings.TrimSpace(in.Description)
	if err := s.Places.Update(c, place); err != nil {
		return nil, storeErr(err, errNoPlace)
	}
	s.index(ctx, place)
	return place, nil
}

// DeletePlace removes the place and unlinks it from its creator in one unit
// of work, then discards the image. Nothing is touched when the requester is
// not the creator.
func (s *PlaceService) DeletePlace(ctx context.Context, placeID, requesterID string) (err error) {
	defer func() {
		metrics.PlaceMutations.WithLabelValues("delete", metrics.Outcome(err)).Inc()
		s.logFailure(err, "delete", logrus.Fields{"place_id": placeID})
	}()

	c, cancel := s.storeCtx(ctx)
	defer cancel()
	place, err := s.Places.GetByID(c, placeID)
	if err != nil {
		return storeErr(err, errNoPlace)
	}
	if err := Authorize(requesterID, place, "delete"); err != nil {
		return err
	}
	err = s.Tx.WithinTx(c, func(ctx context.Context, repos repo.Repositories) error {
		if err := repos.Places.Delete(ctx, place.ID); err != nil {
			return err
		}
		return repos.Users.RemovePlace(ctx, place.CreatorID, place.ID)
	})
	if err != nil {
		// A concurrent delete won the race.
		if errors.Is(err, repo.ErrNotFound) {
			return errNoPlace
		}
		return apperror.Unavailable(err)
	}
	s.Resources.Discard(ctx, place.ImagePath)
	if s.Index != nil {
		if iErr := s.Index.Delete(ctx, place.ID); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("place_id", place.ID).Warn("search index delete failed")
		}
	}
	return nil
}

func (s *PlaceService) GetPlace(ctx context.Context, placeID string) (*entity.Place, error) {
	c, cancel := s.storeCtx(ctx)
	defer cancel()
	p, err := s.Places.GetByID(c, placeID)
	if err != nil {
		return nil, storeErr(err, errNoPlace)
	}
	return p, nil
}

// PlacesByUser lists the places created by userID. A user with no places is reported as not found.
func (s *PlaceService) PlacesByUser(ctx context.Context, userID string) ([]*entity.Place, error) {
	c, cancel := s.storeCtx(ctx)
	defer cancel()
	list, err := s.Places.ListByCreator(c, userID)
	if err != nil {
		return nil, storeErr(err, apperror.NotFound("could not find places for the provided user id"))
	}
	if len(list) == 0 {
		return nil, apperror.NotFound("could not find places for the provided user id")
	}
	return list, nil
}

// SearchPlaces queries the search index. Without an index it returns no results.
func (s *PlaceService) SearchPlaces(ctx context.Context, q string, size int) ([]*entity.Place, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []*entity.Place{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := s.Index.Search(ctx, q, size)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", q).Warn("place search failed")
		}
		return nil, apperror.Unavailable(err)
	}
	return out, nil
}

func (s *PlaceService) index(ctx context.Context, p *entity.Place) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("place_id", p.ID).Warn("search index failed")
	}
}
