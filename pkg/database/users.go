package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/auth"
	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/models"
)

// CreateUser hashes the password through the credential service and stores
// the user. Usernames and emails are not checked for uniqueness; duplicate
// accounts are permitted.
func (dm *DatabaseManager) CreateUser(ctx context.Context, username, email, password, permissions string) (primitive.ObjectID, error) {
	credential, err := auth.HashPassword(password)
	if err != nil {
		return primitive.NilObjectID, err
	}

	user := models.User{
		Username:    username,
		Email:       email,
		Password:    credential,
		Permissions: permissions,
	}

	id, err := dm.users.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}

	dm.logger.Infow("Created user", "id", id.Hex(), "username", username, "permissions", permissions)
	return id, nil
}

// DeleteUser deletes at most one user by id.
func (dm *DatabaseManager) DeleteUser(ctx context.Context, id string) (*DeleteResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	result, err := dm.users.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, err
	}

	dm.logger.Infow("Deleted user", "id", id, "deleted", result.DeletedCount)
	return result, nil
}

// DeleteUsers deletes every user whose id is in the given set. Ids that
// match nothing simply do not count; the caller reads the deleted count.
func (dm *DatabaseManager) DeleteUsers(ctx context.Context, ids []string) (*DeleteResult, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one user id is required")
	}

	objectIDs, err := parseObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	result, err := dm.users.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}

	dm.logger.Infow("Deleted users", "requested", len(ids), "deleted", result.DeletedCount)
	return result, nil
}

// UpdatePermissions sets the access level on every user whose id is in the
// given set. Partial application is reported through the counts, not as an
// error.
func (dm *DatabaseManager) UpdatePermissions(ctx context.Context, ids []string, permissions string) (*ChangeResult, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one user id is required")
	}

	objectIDs, err := parseObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}
	update := bson.M{"$set": bson.M{"permissions": permissions}}

	result, err := dm.users.UpdateMany(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	dm.logger.Infow("Updated user permissions", "requested", len(ids), "permissions", permissions, "matched", result.MatchedCount)
	return result, nil
}
