package models

// AttributeType selects the DynamoDB scalar type used when binding a key
// value.
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig describes one key-condition lookup against a table or one of
// its secondary indexes.
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
	Limit     int32 // 0 reads every page; >0 stops after that many items
}
