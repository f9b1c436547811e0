package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
)

// Update documents used by the Mongo stores. Every nested-list mutation is a
// single atomic operator so concurrent requests on one document never
// overwrite each other.

// profileSet builds the $set document for a partial profile update. Empty
// request fields are left untouched.
func profileSet(req models.ProfileRequest) bson.M {
	set := bson.M{}
	put := func(key, value string) {
		if value != "" {
			set[key] = value
		}
	}
	put("handle", req.Handle)
	put("company", req.Company)
	put("website", req.Website)
	put("location", req.Location)
	put("bio", req.Bio)
	put("status", req.Status)
	put("githubusername", req.GitHubUsername)
	put("social.youtube", req.YouTube)
	put("social.twitter", req.Twitter)
	put("social.facebook", req.Facebook)
	put("social.linkedin", req.LinkedIn)
	put("social.instagram", req.Instagram)
	if req.Skills != nil {
		set["skills"] = []string(req.Skills)
	}
	return set
}

// pushFront prepends value to the array at field.
func pushFront(field string, value interface{}) bson.M {
	return bson.M{"$push": bson.M{field: bson.M{
		"$each":     bson.A{value},
		"$position": 0,
	}}}
}

// pullByID removes the element whose _id equals id from the array at field.
func pullByID(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{field: bson.M{"_id": id}}}
}

// notLikedBy matches the post only while userID is absent from its likes.
func notLikedBy(postID primitive.ObjectID, userID string) bson.M {
	return bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}}
}

// likedBy matches the post only while userID is present in its likes.
func likedBy(postID primitive.ObjectID, userID string) bson.M {
	return bson.M{"_id": postID, "likes.user": userID}
}

func pullLike(userID string) bson.M {
	return bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}}
}

// hasComment matches the post only while it contains commentID.
func hasComment(postID, commentID primitive.ObjectID) bson.M {
	return bson.M{"_id": postID, "comments._id": commentID}
}

// newestFirst sorts by creation date descending.
var newestFirst = bson.D{{Key: "date", Value: -1}}

// parseID converts a hex id, mapping malformed ids to ErrNotFound.
func parseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}
