package constants

// MultiOrderFolder is the destination bucket for thumbnail assets of orders
// carrying more than one item. Single-item orders use the design folder from
// the SKU catalog instead.
const MultiOrderFolder = "4. Multi Orders"

// MultiOrderRenameGroup prefixes every rename token of a multi-item order.
// The full token is "<group>.<batch sequence>.<position>." and downstream
// print tooling relies on this exact shape.
const MultiOrderRenameGroup = "4"

// TitleMarkers are garment-category keywords that end the display portion of
// a listing title. Text from the first marker onward is dropped.
var TitleMarkers = []string{"T-Shirt"}

// TitleWrapBudget is the character budget for a single rendered title line.
// Longer titles wrap once at the nearest preceding word boundary.
const TitleWrapBudget = 40

// CustomsLabelMarker identifies customs-declaration pages in the postage
// label document. Those pages attach to the postage label they follow instead
// of taking a page slot of their own.
const CustomsLabelMarker = "CUSTOMS DECLARATION"
