package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	LostItemRepository   *LostItemRepository
	ItemRepository       *ItemRepository
	RideRepository       *RideRepository
	AttendanceRepository *AttendanceRepository
	HostelRepository     *HostelRepository
	MaterialRepository   *MaterialRepository
	ChatRepository       *ChatRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		LostItemRepository:   NewLostItemRepository(db),
		ItemRepository:       NewItemRepository(db),
		RideRepository:       NewRideRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		HostelRepository:     NewHostelRepository(db),
		MaterialRepository:   NewMaterialRepository(db),
		ChatRepository:       NewChatRepository(db),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns user input into a substring pattern for ILIKE.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
