package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUserIDMarshalsAsObjectID(t *testing.T) {
	oid := bson.NewObjectID()
	user := User{
		ID:      UserID(oid),
		Name:    "Ivan",
		Surname: "Petrov",
		Email:   "a@b.com",
	}

	data, err := bson.Marshal(user)
	require.NoError(t, err)

	// _id must be a real ObjectID on the wire, not generic binary
	value := bson.Raw(data).Lookup("_id")
	require.Equal(t, bson.TypeObjectID, value.Type)
	assert.Equal(t, oid, value.ObjectID())

	var decoded User
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, user.ID, decoded.ID)
	assert.Equal(t, user.Email, decoded.Email)
}

func TestUserDecodesObjectIDKey(t *testing.T) {
	oid := bson.NewObjectID()

	// documents written with a plain ObjectID _id must decode into User
	doc, err := bson.Marshal(bson.M{"_id": oid, "email": "a@b.com", "is_active": true})
	require.NoError(t, err)

	var user User
	require.NoError(t, bson.Unmarshal(doc, &user))
	assert.Equal(t, UserID(oid), user.ID)
	assert.Equal(t, oid.Hex(), user.ID.String())
	assert.True(t, user.IsActive)
}

func TestParseUserIDRoundTrip(t *testing.T) {
	oid := bson.NewObjectID()

	parsed, err := ParseUserID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, UserID(oid), parsed)

	_, err = ParseUserID("not-an-object-id")
	assert.Error(t, err)
}
