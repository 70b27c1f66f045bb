package errors

const (
	CurrentPageInvalidErrorCode = 200_001
	ObjectIDNotFoundErrorCode   = 200_002
	DuplicatedObjectIDErrorCode = 200_003
	MatchTypeInvalidErrorCode   = 200_004
	DataAlreadyInUsedErrorCode  = 200_005
	PermissionDeniedErrorCode   = 200_006
)

// CurrentPageInvalidError indicates user gives invalid current page or page size when searching items
var CurrentPageInvalidError = new(CurrentPageInvalidErrorCode, "CurrentPageInvalid", "Current page and page size can be only positive integer")

// ObjectIDNotFoundError indicates user gives invalid item ID
var ObjectIDNotFoundError = new(ObjectIDNotFoundErrorCode, "ObjectIDNotFound", "Item with ID %s is not exist")

// DuplicatedObjectIDError indicates user create item using item ID that already in used
var DuplicatedObjectIDError = new(DuplicatedObjectIDErrorCode, "DuplicatedObjectID", "item ID %s is already used")

// MatchTypeInvalidError indicates user give invalid or unsupported match type when user search items
var MatchTypeInvalidError = new(MatchTypeInvalidErrorCode, "MatchTypeInvalid", "Match type %d is invalid or unsupported")

// DataAlreadyInUsedError indicates a unique field of the new item collides with an existing one
var DataAlreadyInUsedError = new(DataAlreadyInUsedErrorCode, "DataAlreadyInUsed", "Some of the given data is already in used")

// PermissionDeniedError indicates the current user does not own the item it tries to change
var PermissionDeniedError = new(PermissionDeniedErrorCode, "PermissionDenied", "User is not allowed to modify item %s")
