package service

import (
	"context"
	"time"

	"inkwell/internal/gateway"
	"inkwell/internal/models"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByResetTokenFn func(context.Context, string, time.Time) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	setAvatarFn       func(context.Context, uint, string) error
	setResetTokenFn   func(context.Context, uint, string, time.Time) error
	updatePasswordFn  func(context.Context, uint, string) error
	accrueRewardFn    func(context.Context, uint, int) error
	debitCreditsFn    func(context.Context, uint, int) error
	redeemRewardsFn   func(context.Context, uint, int, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return s.getByResetTokenFn(ctx, token, now)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SetAvatar(ctx context.Context, id uint, url string) error {
	return s.setAvatarFn(ctx, id, url)
}
func (s *userRepoStub) SetResetToken(ctx context.Context, id uint, token string, expire time.Time) error {
	return s.setResetTokenFn(ctx, id, token, expire)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return s.updatePasswordFn(ctx, id, hash)
}
func (s *userRepoStub) AccrueReward(ctx context.Context, id uint, delta int) error {
	return s.accrueRewardFn(ctx, id, delta)
}
func (s *userRepoStub) DebitCredits(ctx context.Context, id uint, cost int) error {
	return s.debitCreditsFn(ctx, id, cost)
}
func (s *userRepoStub) RedeemRewards(ctx context.Context, id uint, rewardCost, credits int) error {
	return s.redeemRewardsFn(ctx, id, rewardCost, credits)
}

type followRepoStub struct {
	createFn        func(context.Context, uint, uint) (bool, error)
	deleteFn        func(context.Context, uint, uint) (bool, error)
	existsFn        func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint) ([]models.UserSummary, error)
	listFollowingFn func(context.Context, uint) ([]models.UserSummary, error)
	countsFn        func(context.Context, uint) (int64, int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.listFollowingFn(ctx, userID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	return s.countsFn(ctx, userID)
}

type blogRepoStub struct {
	createFn        func(context.Context, *models.Blog) error
	getByIDFn       func(context.Context, uint, uint) (*models.Blog, error)
	getByAuthorFn   func(context.Context, uint, int, int, uint) ([]*models.Blog, error)
	getByCategoryFn func(context.Context, string, int, int, uint) ([]*models.Blog, error)
	listFn          func(context.Context, int, int, uint) ([]*models.Blog, error)
	searchByTitleFn func(context.Context, string, int, int, uint) ([]*models.Blog, int64, error)
	updateFn        func(context.Context, *models.Blog) error
	deleteFn        func(context.Context, uint) error
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likeFn          func(context.Context, uint, uint) (bool, error)
	unlikeFn        func(context.Context, uint, uint) (bool, error)
}

func (s *blogRepoStub) Create(ctx context.Context, blog *models.Blog) error {
	return s.createFn(ctx, blog)
}
func (s *blogRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Blog, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *blogRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.getByAuthorFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *blogRepoStub) GetByCategory(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.getByCategoryFn(ctx, category, limit, offset, currentUserID)
}
func (s *blogRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *blogRepoStub) SearchByTitle(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, int64, error) {
	return s.searchByTitleFn(ctx, query, limit, offset, currentUserID)
}
func (s *blogRepoStub) Update(ctx context.Context, blog *models.Blog) error {
	return s.updateFn(ctx, blog)
}
func (s *blogRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *blogRepoStub) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, blogID)
}
func (s *blogRepoStub) Like(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.likeFn(ctx, userID, blogID)
}
func (s *blogRepoStub) Unlike(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, blogID)
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint, uint) (*models.Comment, error)
	listByBlogFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, blogID, commentID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, blogID, commentID)
}
func (s *commentRepoStub) ListByBlog(ctx context.Context, blogID uint) ([]models.Comment, error) {
	return s.listByBlogFn(ctx, blogID)
}
func (s *commentRepoStub) Delete(ctx context.Context, blogID, commentID uint) error {
	return s.deleteFn(ctx, blogID, commentID)
}

type paymentRepoStub struct {
	getByPaymentIDFn func(context.Context, string) (*models.Payment, error)
	listByUserFn     func(context.Context, uint) ([]models.Payment, error)
	creditPurchaseFn func(context.Context, *models.Payment) error
}

func (s *paymentRepoStub) GetByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.getByPaymentIDFn(ctx, paymentID)
}
func (s *paymentRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *paymentRepoStub) CreditPurchase(ctx context.Context, payment *models.Payment) error {
	return s.creditPurchaseFn(ctx, payment)
}

type gatewayStub struct {
	createOrderFn func(context.Context, gateway.OrderSpec) (*gateway.Order, error)
}

func (s *gatewayStub) CreateOrder(ctx context.Context, spec gateway.OrderSpec) (*gateway.Order, error) {
	return s.createOrderFn(ctx, spec)
}
