package gateway

// Entity is one independently loaded piece of site content.
type Entity string

const (
	EntityProducts     Entity = "products"
	EntitySettings     Entity = "settings"
	EntityHomeContent  Entity = "home_content"
	EntityTestimonials Entity = "testimonials"
)

var entities = []Entity{EntityProducts, EntitySettings, EntityHomeContent, EntityTestimonials}

// LoadState tracks where an entity's data came from this session:
//
//	UNINITIALIZED -> LOADING_LOCAL -> LOCAL_ONLY
//	                               -> AWAITING_REMOTE -> REMOTE_LOADED | REMOTE_FAILED
type LoadState string

const (
	Uninitialized  LoadState = "UNINITIALIZED"
	LoadingLocal   LoadState = "LOADING_LOCAL"
	LocalOnly      LoadState = "LOCAL_ONLY"
	AwaitingRemote LoadState = "AWAITING_REMOTE"
	RemoteLoaded   LoadState = "REMOTE_LOADED"
	RemoteFailed   LoadState = "REMOTE_FAILED"
)

// Terminal reports whether no further load step will change the entity.
func (s LoadState) Terminal() bool {
	return s == LocalOnly || s == RemoteLoaded || s == RemoteFailed
}

// Cache keys.
const (
	KeySettings     = "settings"
	KeyHomeContent  = "home_content"
	KeyProducts     = "products"
	KeyTestimonials = "testimonials"
)

func CartKey(sessionID string) string { return "cart:" + sessionID }
