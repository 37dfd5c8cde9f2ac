package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/wishlist-service/internal/domain"
	apperrors "github.com/utafrali/wishlist-service/pkg/errors"
)

const keyPrefix = "wishlist:"

// saveIfVersionScript atomically replaces the stored wishlist document only
// when its version field still matches the expected version. Returns 1 on
// success, 0 when the document is missing or the version diverged.
var saveIfVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
	return 0
end
local doc = cjson.decode(current)
if doc.version ~= tonumber(ARGV[2]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

// WishlistRepository implements repository.WishlistRepository using Redis.
// Wishlists are stored as JSON documents keyed by user ID, without a TTL:
// a wishlist lives until its user stops using the platform, which is handled
// by offline cleanup rather than key expiry.
type WishlistRepository struct {
	client *redis.Client
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// Get retrieves a wishlist by user ID from Redis.
func (r *WishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	key := keyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", userID)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}

	return &wishlist, nil
}

// GetByUserAndProduct retrieves the wishlist for userID only if it contains
// the given product.
func (r *WishlistRepository) GetByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	wishlist, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if wishlist.FindProductIndex(productID) < 0 {
		return nil, apperrors.NotFound("product", productID)
	}

	return wishlist, nil
}

// Create persists a new wishlist with SETNX so that concurrent creates for the
// same user cannot both succeed.
func (r *WishlistRepository) Create(ctx context.Context, wishlist *domain.Wishlist) error {
	key := keyPrefix + wishlist.UserID

	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	set, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx wishlist: %w", err)
	}
	if !set {
		return apperrors.AlreadyExists("wishlist", "user_id", wishlist.UserID)
	}

	return nil
}

// SaveIfVersion persists the wishlist only if the stored document still
// carries expectedVersion. The compare and the swap run as one Lua script so
// no concurrent writer can slip in between.
func (r *WishlistRepository) SaveIfVersion(ctx context.Context, wishlist *domain.Wishlist, expectedVersion int) (bool, error) {
	key := keyPrefix + wishlist.UserID

	data, err := json.Marshal(wishlist)
	if err != nil {
		return false, fmt.Errorf("marshal wishlist: %w", err)
	}

	res, err := saveIfVersionScript.Run(ctx, r.client, []string{key}, data, expectedVersion).Int()
	if err != nil {
		return false, fmt.Errorf("redis save wishlist: %w", err)
	}

	return res == 1, nil
}
