package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents an account in the user registry. Password always holds
// the hashed credential; plaintext only exists transiently on the way into
// the credential service and is never persisted or serialized.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username    string             `bson:"username,omitempty" json:"username,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Password    string             `bson:"password,omitempty" json:"-"`
	Permissions string             `bson:"permissions,omitempty" json:"permissions,omitempty"`
}
