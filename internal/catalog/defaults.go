package catalog

// Defaults is the built-in campus action list.
var Defaults = []Entry{
	{
		Code: "textbook-exchange", Title: "Textbook Exchange Drop-off", Category: "Donate & Buy",
		SDGs: []int{4, 12}, Minutes: 5, Points: 20, Impact: "E",
		Description: "Drop off old textbooks in the campus 'Textbook Exchange' bin near libraries. Scan the QR to log your action and claim a coupon.",
		Steps:       []string{"Locate a bin", "Drop your books", "Scan the QR"},
	},
	{
		Code: "sustainable-snack", Title: "Sustainable Snack Station", Category: "Donate & Buy",
		SDGs: []int{2, 12}, Minutes: 2, Points: 10, Impact: "S",
		Description: "Buy a snack from the Sustainable Station stocked with local, ethical products.",
		Steps:       []string{"Find the station", "Choose a sustainable snack", "Pay and scan the QR"},
	},
	{
		Code: "campus-cleanup", Title: "Campus Clean-Up Crew", Category: "Volunteering",
		SDGs: []int{11, 15}, Minutes: 45, Points: 40, Impact: "E",
		Description: "Join a 45-minute clean-up session and help keep the campus clean.",
		Steps:       []string{"Sign up", "Pick a route", "Collect litter", "Dispose properly"},
	},
	{
		Code: "peer-tutoring", Title: "Peer Tutoring Power Hour", Category: "Volunteering",
		SDGs: []int{4, 10}, Minutes: 30, Points: 30, Impact: "S",
		Description: "Offer or receive 30-minute tutoring in a campus study area.",
		Steps:       []string{"Pick a slot", "Meet your peer", "Complete the session", "Scan the QR"},
	},
	{
		Code: "mindfulness-moment", Title: "Campus Mindfulness Moment", Category: "Mind Body Spirit",
		SDGs: []int{3}, Minutes: 10, Points: 10, Impact: "S",
		Description: "Take a 5-10 minute guided mindfulness break.",
		Steps:       []string{"Find a quiet spot", "Start the session", "Breathe and relax"},
	},
	{
		Code: "stair-challenge", Title: "Stair Challenge Sprint", Category: "Mind Body Spirit",
		SDGs: []int{3, 11}, Minutes: 5, Points: 10, Impact: "E",
		Description: "Skip the elevator, take the stairs, and scan the QR at the top.",
		Steps:       []string{"Find the marked stairwell", "Climb!", "Scan the QR"},
	},
	{
		Code: "litter-patrol", Title: "Litter Patrol Power Hour", Category: "Protect Land/Sea/Wildlife",
		SDGs: []int{15, 14}, Minutes: 45, Points: 40, Impact: "E",
		Description: "Walk a designated route for 30-45 minutes and pick up litter.",
		Steps:       []string{"Join a route", "Collect litter safely", "Dispose and scan the QR"},
	},
	{
		Code: "water-whistle", Title: "Water Saving Whistleblower", Category: "Protect Land/Sea/Wildlife",
		SDGs: []int{6, 12}, Minutes: 3, Points: 10, Impact: "E",
		Description: "Report leaky faucets by scanning the QR sticker next to them.",
		Steps:       []string{"Find the sticker", "Scan the QR", "Describe the leak"},
	},
	{
		Code: "reusable-cup", Title: "Reusable Cup Champion", Category: "Reuse/Reduce/Recycle",
		SDGs: []int{12, 13}, Minutes: 2, Points: 10, Impact: "E",
		Description: "Bring your own cup for beverages and scan the counter QR to log it.",
		Steps:       []string{"Use a reusable cup", "Buy your drink", "Scan the QR"},
	},
	{
		Code: "food-waste-fighter", Title: "Food Waste Fighter", Category: "Reuse/Reduce/Recycle",
		SDGs: []int{2, 12}, Minutes: 2, Points: 10, Impact: "E",
		Description: "Scrape plates into compost bins and scan the QR near the bin.",
		Steps:       []string{"Scrape into compost", "Scan the QR"},
	},
	{
		Code: "sdg-story", Title: "SDG Story Share", Category: "Advocate & Empower",
		SDGs: []int{17}, Minutes: 5, Points: 15, Impact: "G",
		Description: "Share a 30-60s video or short write-up of your SDG contribution.",
		Steps:       []string{"Record or write", "Post it", "Scan the QR at the story booth"},
	},
	{
		Code: "sustainability-poll", Title: "Campus Sustainability Poll", Category: "Advocate & Empower",
		SDGs: []int{16, 17}, Minutes: 5, Points: 10, Impact: "G",
		Description: "Complete a 2-5 minute poll on campus sustainability.",
		Steps:       []string{"Open the poll", "Answer the questions", "Scan the QR on the results page"},
	},
}
