package handlers

import (
	"time"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

type locationDTO struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

type placeDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Address     string      `json:"address"`
	Location    locationDTO `json:"location"`
	Creator     string      `json:"creator"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toPlaceDTO(p *entity.Place) placeDTO {
	return placeDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.ImagePath,
		Address:     p.Address,
		Location:    locationDTO{Lat: p.Location.Lat, Long: p.Location.Long},
		Creator:     p.CreatorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlaceDTOs(list []*entity.Place) []placeDTO {
	out := make([]placeDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPlaceDTO(p))
	}
	return out
}

type userDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

func toUserDTO(u *entity.User) userDTO {
	places := u.Places
	if places == nil {
		places = []string{}
	}
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.ImagePath, Places: places}
}
