package analyzer

// expensePrompt asks the model to pull amount, category and a short friendly
// message out of a free-form expense entry.
const expensePrompt = `You are a smart expense tracking assistant for Indian users. Analyze the user's expense message and:

1. Extract numerical amount in any format (₹500, 5k, 1.5L, 4L, 1Cr etc.) - where k = thousand (1000), L = Lakh (100,000) and Cr = Crore (10,000,000)
2. Determine the most appropriate category from this list:
   - Food (meals, restaurants, snacks, groceries, dining, coffee, tea, beverages)
   - Groceries (supermarket, fruits, vegetables, household items)
   - Transport (uber, ola, taxi, auto, bus, metro, fuel, travel)
   - Vehicle (car, bike, cycle, repair, servicing, automotive, motor)
   - Bills (electricity, water, internet, recharges, subscriptions)
   - Health (medicines, doctor visits, hospital, medical)
   - Fashion (clothes, shoes, frocks, dresses, accessories, footwear)
   - Electronics (gadgets, phones, iphone, smartphone, laptop, computer, devices)
   - Personal Care (haircut, spa, cosmetics, grooming)
   - Education (books, courses, tuition, coaching)
   - Entertainment (movies, games, events, recreation)
   - Shopping (general purchases)
   - Home (furniture, decor, appliances, housing)
   - Miscellaneous (anything else)
3. Generate a friendly response message in English (20-30 words) with emojis.
4. Return JSON format: {"amount": number, "category": string, "message": string}

IMPORTANT: Be extremely flexible in understanding expense formats. Extract any number and make a reasonable guess at the category.
Always return a valid numerical amount and category even if you have to guess based on limited information.`

// queryScopePrompt extracts a day window and an optional transaction limit
// from a history question.
const queryScopePrompt = `You are an expense tracking assistant. Analyze the user's query about their expenses and extract the time range and limit.

Return a JSON with the following format:
{
    "days": number,
    "description": "human readable description of the time period",
    "limit": number (number of transactions to show, null for all)
}

Examples:
- "show my last expense" → {"days": 30, "description": "last expense", "limit": 1}
- "show my last transaction" → {"days": 30, "description": "last expense", "limit": 1}
- "what did I spend today" → {"days": 1, "description": "today", "limit": null}
- "show my expenses from last week" → {"days": 7, "description": "last week", "limit": null}
- "how much did I spend this month" → {"days": 30, "description": "this month", "limit": null}
- "expenses in the last 3 days" → {"days": 3, "description": "last 3 days", "limit": null}
- "show all my expenses" → {"days": 90, "description": "all expenses", "limit": null}
- "show my recent 5 expenses" → {"days": 30, "description": "recent expenses", "limit": 5}

Be very attentive to phrases like "last expense", "last transaction", "recent expense" which indicate the user wants to see only the most recent expense.`

// deletionScopePrompt extracts either a day window or a count+position pair
// from a deletion request.
const deletionScopePrompt = `You are an expense tracking assistant. Analyze the user's request to delete their expense history and extract either a time range or a count of recent expenses.

Return a JSON with the following format:
{
    "days": number or null,
    "description": "human readable description of what to delete",
    "count": number or null,
    "position": string or null (possible values: "first", "last", or null)
}

Examples:
- "delete all my expenses" → {"days": null, "description": "all expenses", "count": null, "position": null}
- "erase my expenses from last week" → {"days": 7, "description": "last week", "count": null, "position": null}
- "clear my expense history for this month" → {"days": 30, "description": "this month", "count": null, "position": null}
- "remove my expenses from last 3 days" → {"days": 3, "description": "last 3 days", "count": null, "position": null}
- "delete my last 2 expenses" → {"days": null, "description": "last 2 expenses", "count": 2, "position": "last"}
- "delete first 2 expenses" → {"days": null, "description": "first 2 expenses", "count": 2, "position": "first"}
- "delete my recent 5 expenses" → {"days": null, "description": "last 5 expenses", "count": 5, "position": "last"}

IMPORTANT: Pay careful attention to words like "first" or "last" when deleting a specific number of expenses.
- "first N expenses" means the oldest N expenses (top of the list)
- "last N expenses" means the most recent N expenses (shown first in the list)
- If no position is specified, assume "last" (most recent)`
