package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	BlogKeyPrefix   = "blog:%d"
	CommentsPrefix  = "blog:%d:comments"
	FollowersPrefix = "user:%d:followers"
	FollowingPrefix = "user:%d:following"
)

const (
	UserTTL      = 5 * time.Minute
	BlogTTL      = 30 * time.Minute
	CommentsTTL  = 2 * time.Minute
	FollowersTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BlogKey(blogID uint) string {
	return fmt.Sprintf(BlogKeyPrefix, blogID)
}

func CommentsKey(blogID uint) string {
	return fmt.Sprintf(CommentsPrefix, blogID)
}

func FollowersKey(userID uint) string {
	return fmt.Sprintf(FollowersPrefix, userID)
}

func FollowingKey(userID uint) string {
	return fmt.Sprintf(FollowingPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateBlog drops the blog entry and its comment list.
func InvalidateBlog(ctx context.Context, blogID uint) {
	Invalidate(ctx, BlogKey(blogID))
	Invalidate(ctx, CommentsKey(blogID))
}

// InvalidateFollowGraph drops both follow lists for the user.
func InvalidateFollowGraph(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowersKey(userID))
	Invalidate(ctx, FollowingKey(userID))
}
