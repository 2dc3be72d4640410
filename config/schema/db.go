package schema

// ServeParam is the operational knob row; there is at most one.
type ServeParam struct {
	ID           uint `gorm:"primarykey"`
	RateLimit    int  // requests per minute per origin+ip; 0 disables limiting
	VideoTaskCap int  // max concurrent video poll loops
}

type IpRateWhitelist struct {
	ID         uint   `gorm:"primarykey"`
	OriginOrIP string `gorm:"unique"`
	Available  bool
}
