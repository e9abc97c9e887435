package account

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"wagondepot/bizerror"
	"wagondepot/idgen"
	"wagondepot/persistence"
	"wagondepot/session"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	RegisterUserFunc          = RegisterUser
	QueryUsersFunc            = QueryUsers
	SignFunc                  = Sign
	UpdateBasicAuthSecretFunc = UpdateBasicAuthSecret
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// Sign verifies the name/secret pair and issues a new token into the cache.
func Sign(name, secret string) (*session.Context, error) {
	identity := session.Identity{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Model(&User{}).Where(&User{Name: name, Secret: HashSha256(secret)}).Scan(&identity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}

	token := uuid.New().String()
	securityContext := session.Context{Token: token, Identity: identity, SigningTime: time.Now()}
	session.TokenCache.Set(token, &securityContext, cache.DefaultExpiration)
	return &securityContext, nil
}

// RegisterUser creates a user and signs it in directly. Registration is open:
// anybody holding the endpoint may create an account.
func RegisterUser(c *UserCreation) (*session.Context, error) {
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: c.Nickname, Secret: HashSha256(c.Secret)}
	if err := persistence.ActiveDataSourceManager.GormDB().Create(&user).Error; err != nil {
		return nil, err
	}
	return Sign(c.Name, c.Secret)
}

func QueryUsers(sec *session.Context) ([]UserInfo, error) {
	users := []UserInfo{}
	if err := persistence.ActiveDataSourceManager.GormDB().Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB()
	user := User{}
	if err := db.Model(&User{}).Where(&User{ID: sec.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).Scan(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return db.Model(&User{}).Where(&User{ID: sec.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}
