package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "duration_min"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"name": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1440,
			},
		},
	},
}

var BranchValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "start_hour", "end_hour"},
		"additionalProperties": true,
		"properties": workingHours(bson.M{
			"_id":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"name": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
		}),
	},
}

var PractitionerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "start_hour", "end_hour"},
		"additionalProperties": true,
		"properties": workingHours(bson.M{
			"_id":       bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"name":      bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"branch_id": bson.M{"bsonType": "string", "maxLength": 64},
		}),
	},
}

// Hour ordering (start before end) is checked by the seed, not the schema.
func workingHours(props bson.M) bson.M {
	props["start_hour"] = bson.M{"bsonType": "int", "minimum": 0, "maximum": 23}
	props["end_hour"] = bson.M{"bsonType": "int", "minimum": 1, "maximum": 24}
	return props
}
