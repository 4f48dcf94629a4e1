package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Document is a schema-flexible record exactly as the caller supplied it.
// Books, cart items and reviews have no fixed shape.
type Document = primitive.M

type User struct {
	UID         primitive.ObjectID `bson:"_id,omitempty" json:"userId"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	Pass        string             `bson:"password" json:"-"`
	Username    string             `bson:"username" json:"username" validate:"required"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Age         string             `bson:"age,omitempty" json:"age,omitempty"`
	Work        string             `bson:"work,omitempty" json:"work,omitempty"`
	DOB         string             `bson:"dob,omitempty" json:"dob,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Profile is the fixed field subset written by the upload-profile route.
type Profile struct {
	Location    string `bson:"location" json:"location"`
	Age         string `bson:"age" json:"age"`
	Work        string `bson:"work" json:"work"`
	DOB         string `bson:"dob" json:"dob"`
	Description string `bson:"description" json:"description"`
}

// UpdateResult mirrors the store's update acknowledgment.
type UpdateResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}
