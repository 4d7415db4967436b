package domain

// Engagement holds the interaction counters for one attraction. The row is
// created together with the attraction and must exist for as long as the
// attraction does; counters never go negative.
type Engagement struct {
	AttractionID int64 `db:"attraction_id" json:"attraction_id"`
	Likes        int   `db:"likes" json:"likes"`
	Shares       int   `db:"shares" json:"shares"`
	Favorites    int   `db:"favorites" json:"favorites"`
}

// EngagementKind selects which counter an increment or decrement targets.
type EngagementKind string

const (
	KindLikes     EngagementKind = "likes"
	KindShares    EngagementKind = "shares"
	KindFavorites EngagementKind = "favorites"
)

func (k EngagementKind) Valid() bool {
	switch k {
	case KindLikes, KindShares, KindFavorites:
		return true
	}
	return false
}
