package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID        UserID `json:"id" bson:"_id"`
	CreatedAt int64  `json:"-" bson:"created_at"`
	UpdatedAt int64  `json:"-" bson:"updated_at"`

	Name       string `json:"name" bson:"name"`
	Surname    string `json:"surname" bson:"surname"`
	Patronymic string `json:"patronymic,omitempty" bson:"patronymic,omitempty"`
	Email      string `json:"email" bson:"email"`
	Password   string `json:"-" bson:"password"`
	IsActive   bool   `json:"-" bson:"is_active"`
}

type UserID bson.ObjectID

// The defined type would otherwise lose the driver's ObjectID codec and be
// encoded as plain 12-byte binary, so marshaling delegates to bson.ObjectID.
var (
	_ bson.ValueMarshaler   = UserID{}
	_ bson.ValueUnmarshaler = (*UserID)(nil)
)

func (id UserID) MarshalBSONValue() (byte, []byte, error) {
	t, data, err := bson.MarshalValue(bson.ObjectID(id))
	return byte(t), data, err
}

func (id *UserID) UnmarshalBSONValue(t byte, data []byte) error {
	var oid bson.ObjectID
	if err := bson.UnmarshalValue(bson.Type(t), data, &oid); err != nil {
		return err
	}
	*id = UserID(oid)
	return nil
}

func ParseUserID(id string) (UserID, error) {
	uid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return UserID{}, err
	}

	return UserID(uid), nil
}

func (id UserID) String() string {
	return bson.ObjectID(id).Hex()
}
