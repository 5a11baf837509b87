package cli

// TabWidth is the number of spaces used for tabwriter output alignment.
const TabWidth = 2
