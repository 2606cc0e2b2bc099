package models

// TaskType is one entry of the fixed production stage catalog. The
// catalog is configuration, not data: tasks store the code/name pair they
// were created with and the service does not police membership.
type TaskType struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

var TaskTypes = []TaskType{
	{Code: "1001-1", Name: "Keying/Scanning/OCR/Script Running"},
	{Code: "1006-1", Name: "Int. Revised Correction"},
	{Code: "1002-1", Name: "Paging"},
	{Code: "1007-1", Name: "II. Rev. Crx."},
	{Code: "1003-1", Name: "Corr./Paging check"},
	{Code: "1008-1", Name: "Check II. Rev. Crx."},
	{Code: "2001-1", Name: "Art Rendering"},
	{Code: "2002-1", Name: "Art crx."},
	{Code: "2003-1", Name: "Art rev. crx."},
	{Code: "2004-1", Name: "2nd Rev. Art Crx."},
	{Code: "9999-1", Name: "Misc./Training/other type job"},
}

// GetTaskTypeByCode returns the catalog entry for code, or nil when the
// code is not in the catalog.
func GetTaskTypeByCode(code string) *TaskType {
	for i := range TaskTypes {
		if TaskTypes[i].Code == code {
			return &TaskTypes[i]
		}
	}
	return nil
}
