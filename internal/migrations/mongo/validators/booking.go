package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
			"phone",
			"service_id",
			"resource_kind",
			"resource_id",
			"date",
			"date_key",
			"slot",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"service_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"resource_kind": bson.M{
				"bsonType": "string",
				"enum":     []string{"practitioner", "branch"},
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"date_key": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"slot": bson.M{
				"bsonType": "string",
				"pattern":  `^(0[1-9]|1[0-2]):[0-5]\d (AM|PM)$`,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"approved",
					"declined",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"reviewed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
