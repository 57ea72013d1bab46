package repository

import (
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByPhone(phone string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	ClearExpiredOTPs() (int64, error)

	Follow(followerID, followingID uint) error
	Unfollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	FindFollowers(userID uint) ([]model.User, error)
	FindFollowing(userID uint) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Addresses").First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

// ClearExpiredOTPs resets OTP fields for users whose code has expired.
func (r *userRepository) ClearExpiredOTPs() (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("otp_code != '' AND otp_expires_at < CURRENT_TIMESTAMP").
		Updates(map[string]interface{}{
			"otp_code":       "",
			"otp_expires_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired OTPs in database", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *userRepository) Follow(followerID, followingID uint) error {
	follow := model.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := r.db.Create(&follow).Error; err != nil {
		logger.Error("Failed to create follow in database", err, map[string]interface{}{
			"follower_id":  followerID,
			"following_id": followingID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Unfollow(followerID, followingID uint) error {
	if err := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.UserFollow{}).Error; err != nil {
		logger.Error("Failed to delete follow in database", err, map[string]interface{}{
			"follower_id":  followerID,
			"following_id": followingID,
		})
		return err
	}
	return nil
}

func (r *userRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FindFollowers(userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.following_id = ?", userID).
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to find followers in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindFollowing(userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Joins("JOIN user_follows ON user_follows.following_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to find following in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return users, nil
}
