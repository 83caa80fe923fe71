package models

type BadgeCategory string

const (
	BadgeParticipation BadgeCategory = "participation"
	BadgeAchievement   BadgeCategory = "achievement"
	BadgeSocial        BadgeCategory = "social"
	BadgeSpecial       BadgeCategory = "special"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is static config. Condition is nil for badges that are only granted
// explicitly (tournament prizes).
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `json:"category"`
	Rarity      BadgeRarity   `json:"rarity"`
	Points      int           `json:"points"`

	Condition func(u User, s UserStats) bool `json:"-"`
}

// Unlockable reports whether the badge's condition currently holds.
func (b Badge) Unlockable(u User, s UserStats) bool {
	return b.Condition != nil && b.Condition(u, s)
}

// BadgeCatalog is evaluated in order after every stat-changing action.
var BadgeCatalog = []Badge{
	{
		ID:          "first_post",
		Name:        "Primera Denuncia",
		Description: "Publicaste tu primera denuncia",
		Icon:        "🎯",
		Category:    BadgeParticipation,
		Rarity:      RarityCommon,
		Points:      10,
		Condition:   func(u User, _ UserStats) bool { return u.TotalDenuncias >= 1 },
	},
	{
		ID:          "active_reporter",
		Name:        "Reportero Activo",
		Description: "Publicaste 10 denuncias",
		Icon:        "📰",
		Category:    BadgeParticipation,
		Rarity:      RarityRare,
		Points:      50,
		Condition:   func(u User, _ UserStats) bool { return u.TotalDenuncias >= 10 },
	},
	{
		ID:          "super_reporter",
		Name:        "Super Reportero",
		Description: "Publicaste 50 denuncias",
		Icon:        "🏆",
		Category:    BadgeParticipation,
		Rarity:      RarityEpic,
		Points:      200,
		Condition:   func(u User, _ UserStats) bool { return u.TotalDenuncias >= 50 },
	},
	{
		ID:          "first_recovery",
		Name:        "Primera Recuperación",
		Description: "Recuperaste tu primer objeto",
		Icon:        "✅",
		Category:    BadgeAchievement,
		Rarity:      RarityRare,
		Points:      100,
		Condition:   func(u User, _ UserStats) bool { return u.ObjetosRecuperados >= 1 },
	},
	{
		ID:          "recovery_master",
		Name:        "Maestro de Recuperación",
		Description: "Recuperaste 10 objetos",
		Icon:        "🎖️",
		Category:    BadgeAchievement,
		Rarity:      RarityLegendary,
		Points:      500,
		Condition:   func(u User, _ UserStats) bool { return u.ObjetosRecuperados >= 10 },
	},
	{
		ID:          "helpful_citizen",
		Name:        "Ciudadano Colaborador",
		Description: "Hiciste 25 comentarios útiles",
		Icon:        "💬",
		Category:    BadgeSocial,
		Rarity:      RarityRare,
		Points:      75,
		Condition:   func(u User, _ UserStats) bool { return u.TotalComentarios >= 25 },
	},
	{
		ID:          "community_leader",
		Name:        "Líder Comunitario",
		Description: "Alcanzaste nivel 10",
		Icon:        "👑",
		Category:    BadgeSocial,
		Rarity:      RarityEpic,
		Points:      300,
		Condition:   func(u User, _ UserStats) bool { return u.Level >= 10 },
	},
	{
		ID:          "streak_warrior",
		Name:        "Guerrero de Racha",
		Description: "Mantuviste una racha de 30 días",
		Icon:        "🔥",
		Category:    BadgeSpecial,
		Rarity:      RarityLegendary,
		Points:      1000,
		Condition:   func(u User, _ UserStats) bool { return u.Streak >= 30 },
	},
	{
		ID:          "early_adopter",
		Name:        "Adoptador Temprano",
		Description: "Uno de los primeros 100 usuarios",
		Icon:        "🌟",
		Category:    BadgeSpecial,
		Rarity:      RarityLegendary,
		Points:      500,
		Condition:   func(_ User, s UserStats) bool { return s.UserRank > 0 && s.UserRank <= 100 },
	},
	// Tournament prizes carry their points on the prize itself.
	{
		ID:          "monthly_champion",
		Name:        "Campeón Mensual",
		Description: "Ganaste el torneo mensual",
		Icon:        "🥇",
		Category:    BadgeSpecial,
		Rarity:      RarityLegendary,
	},
	{
		ID:          "monthly_runner_up",
		Name:        "Subcampeón Mensual",
		Description: "Segundo lugar en el torneo mensual",
		Icon:        "🥈",
		Category:    BadgeSpecial,
		Rarity:      RarityEpic,
	},
	{
		ID:          "monthly_third",
		Name:        "Tercer Lugar Mensual",
		Description: "Tercer lugar en el torneo mensual",
		Icon:        "🥉",
		Category:    BadgeSpecial,
		Rarity:      RarityRare,
	},
}

func FindBadge(id string) (Badge, bool) {
	for _, b := range BadgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
