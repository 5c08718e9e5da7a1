package reference

// Game is one canonical reference entry: the normalized game name and its
// payline label as shown in the reference sheet ("25 lines").
type Game struct {
	Name  string
	Lines string
}

// games maps canonical game names to their reference entries.
// Source: operator reference spreadsheet, columns B (name) and C (lines).
var games = map[string]Game{
	"Magical Spin":                    {Name: "Magical Spin", Lines: "25 lines"},
	"Top Gun":                         {Name: "Top Gun", Lines: "25 lines"},
	"Iceland":                         {Name: "Iceland", Lines: "50 lines"},
	"Green Light":                     {Name: "Green Light", Lines: "50 lines"},
	"Land of Gold":                    {Name: "Land of Gold", Lines: "40 lines"},
	"Halloween Fortune":               {Name: "Halloween Fortune", Lines: "50 lines"},
	"Yun cong Long":                   {Name: "Yun cong Long", Lines: "40 lines"},
	"Desert":                          {Name: "Desert", Lines: "20 lines"},
	"Safari Heat":                     {Name: "Safari Heat", Lines: "15 lines"},
	"Penguin vacation":                {Name: "Penguin vacation", Lines: "30 lines"},
	"Cherry Love":                     {Name: "Cherry Love", Lines: "30 lines"},
	"Gaelic Luck":                     {Name: "Gaelic Luck", Lines: "20 lines"},
	"Football":                        {Name: "Football", Lines: "25 lines"},
	"Yu Huang Da Di":                  {Name: "Yu Huang Da Di", Lines: "20 lines"},
	"ZhaoCalinBao":                    {Name: "ZhaoCalinBao", Lines: "5 lines"},
	"Captain Treasure Pro":            {Name: "Captain Treasure Pro", Lines: "20 lines"},
	"5 Dragons":                       {Name: "5 Dragons", Lines: "25 lines"},
	"Lucky Panda":                     {Name: "Lucky Panda", Lines: "72 lines"},
	"Triple Twister":                  {Name: "Triple Twister", Lines: "50 lines"},
	"8 treasure 1 Queen":              {Name: "8 treasure 1 Queen", Lines: "50 lines"},
	"Epic Ape":                        {Name: "Epic Ape", Lines: "40 lines"},
	"Tiger Claw":                      {Name: "Tiger Claw", Lines: "40 lines"},
	"Warriors Gold":                   {Name: "Warriors Gold", Lines: "25 lines"},
	"Lie yan Zuan Shi":                {Name: "Lie yan Zuan Shi", Lines: "50 lines"},
	"Age of the Gold King of Olympus": {Name: "Age of the Gold King of Olympus", Lines: "50 lines"},
	"Yuan Pu Lian Huan":               {Name: "Yuan Pu Lian Huan", Lines: "25 lines"},
	"Ghosts of christmas":             {Name: "Ghosts of christmas", Lines: "20 lines"},
	"Marilyn Monroe":                  {Name: "Marilyn Monroe", Lines: "20 lines"},
	"Beach Life":                      {Name: "Beach Life", Lines: "20 lines"},
	"Sultans gold":                    {Name: "Sultans gold", Lines: "20 lines"},
	"Hologram Wilds":                  {Name: "Hologram Wilds", Lines: "40 lines"},
	"Fortune of the Fox":              {Name: "Fortune of the Fox", Lines: "25 lines"},
	"Age of Egypt":                    {Name: "Age of Egypt", Lines: "20 lines"},
	"Berry Berry Bonanza":             {Name: "Berry Berry Bonanza", Lines: "9 lines"},
	"The riches of Don Quixote":       {Name: "The riches of Don Quixote", Lines: "50 lines"},
	"Crystal Waters":                  {Name: "Crystal Waters", Lines: "20 lines"},
	"Zhao Cai Tong Zi":                {Name: "Zhao Cai Tong Zi", Lines: "9 lines"},
	"Sea captain":                     {Name: "Sea captain", Lines: "25 lines"},
	"Lotto madness":                   {Name: "Lotto madness", Lines: "20 lines"},
	"Rome and Glory":                  {Name: "Rome and Glory", Lines: "20 lines"},
	"Stone Age":                       {Name: "Stone Age", Lines: "25 lines"},
	"Farmers Market":                  {Name: "Farmers Market", Lines: "9 lines"},
	"Orient Express":                  {Name: "Orient Express", Lines: "20 lines"},
	"A night Out":                     {Name: "A night Out", Lines: "20 lines"},
	"Paydirt":                         {Name: "Paydirt", Lines: "25 lines"},
	"Fei Long Zai Tian":               {Name: "Fei Long Zai Tian", Lines: "25 lines"},
	"Golden Tree":                     {Name: "Golden Tree", Lines: "25 lines"},
	"Shinning Star":                   {Name: "Shinning Star", Lines: "25 lines"},
	"Si Xiang":                        {Name: "Si Xiang", Lines: "9 lines"},
	"Ranch Story":                     {Name: "Ranch Story", Lines: "25 lines"},
	"Western Ranch Story":             {Name: "Western Ranch Story", Lines: "25 lines"},
	"Cookie Pop":                      {Name: "Cookie Pop", Lines: "30 lines"},
	"Circus":                          {Name: "Circus", Lines: "20 lines"},
	"Treasure Island":                 {Name: "Treasure Island", Lines: "25 lines"},
	"Pirate ship":                     {Name: "Pirate ship", Lines: "30 lines"},
	"Fairy Garden":                    {Name: "Fairy Garden", Lines: "20 lines"},
	"Fire Discover":                   {Name: "Fire Discover", Lines: "25 lines"},
	"Coyote Cash":                     {Name: "Coyote Cash", Lines: "25 lines"},
	"T- Rex":                          {Name: "T- Rex", Lines: "25 lines"},
	"Big Shot 2":                      {Name: "Big Shot 2", Lines: "20 lines"},
	"Banana Monkey":                   {Name: "Banana Monkey", Lines: "25 lines"},
	"Football Carnival":               {Name: "Football Carnival", Lines: "50 lines"},
	"Fortune 2":                       {Name: "Fortune 2", Lines: "40 lines"},
	"Sun Wukong":                      {Name: "Sun Wukong", Lines: "15 lines"},
	"Wealth treasure":                 {Name: "Wealth treasure", Lines: "20 lines"},
	"The great King Empire":           {Name: "The great King Empire", Lines: "25 lines"},
	"Nian Nian You Yu":                {Name: "Nian Nian You Yu", Lines: "9 lines"},
	"Wild Spirit":                     {Name: "Wild Spirit", Lines: "9 lines"},
	"Football Fans":                   {Name: "Football Fans", Lines: "25 lines"},
	"Funny Fruit Farm":                {Name: "Funny Fruit Farm", Lines: "25 lines"},
	"Money Fever":                     {Name: "Money Fever", Lines: "25 lines"},
	"Fairy garden":                    {Name: "Fairy garden", Lines: "25 lines"},
	"Yi":                              {Name: "Yi", Lines: "20 lines"},
	"True love":                       {Name: "True love", Lines: "15 lines"},
	"Santa Surprise":                  {Name: "Santa Surprise", Lines: "20 lines"},
	"Aztees Treasure":                 {Name: "Aztees Treasure", Lines: "20 lines"},
	"the pyramid of Ramesses":         {Name: "the pyramid of Ramesses", Lines: "20 lines"},
	"Diamond valley":                  {Name: "Diamond valley", Lines: "20 lines"},
	"Riches of Cleopatra":             {Name: "Riches of Cleopatra", Lines: "20 lines"},
	"Rally":                           {Name: "Rally", Lines: "20 lines"},
	"Sherlock Mystery":                {Name: "Sherlock Mystery", Lines: "20 lines"},
	"spud Reillys crop of gold":       {Name: "spud Reillys crop of gold", Lines: "20 lines"},
	"Thai Temple":                     {Name: "Thai Temple", Lines: "15 lines"},
	"Pharaoh's Secrets":               {Name: "Pharaoh's Secrets", Lines: "20 lines"},
	"豔姿公主":                            {Name: "豔姿公主", Lines: "20 lines"},
	"Geishas Garden":                  {Name: "Geishas Garden", Lines: "20 lines"},
	"Silver bullet":                   {Name: "Silver bullet", Lines: "9 lines"},
	"Dolphin":                         {Name: "Dolphin", Lines: "9 lines"},
	"Three Kingdom":                   {Name: "Three Kingdom", Lines: "9 lines"},
	"Season Greeting":                 {Name: "Season Greeting", Lines: "9 lines"},
	"Xin Pan Jin Lian":                {Name: "Xin Pan Jin Lian", Lines: "9 lines"},
	"Fong Shen":                       {Name: "Fong Shen", Lines: "9 lines"},
	"royal":                           {Name: "royal", Lines: "9 lines"},
	"Silent Samurai":                  {Name: "Silent Samurai", Lines: "9 lines"},
	"Great stars":                     {Name: "Great stars", Lines: "9 lines"},
	"Spartan":                         {Name: "Spartan", Lines: "9 lines"},
	"Kimochi":                         {Name: "Kimochi", Lines: "9 lines"},
	"Amazon Jungle":                   {Name: "Amazon Jungle", Lines: "9 lines"},
	"Victory":                         {Name: "Victory", Lines: "20 lines"},
	"Tally Ho":                        {Name: "Tally Ho", Lines: "20 lines"},
	"Robin Hood":                      {Name: "Robin Hood", Lines: "15 lines"},
	"Dragon Gold":                     {Name: "Dragon Gold", Lines: "20 lines"},
	"Fortune 3":                       {Name: "Fortune 3", Lines: "20 lines"},
	"Big Shot 3":                      {Name: "Big Shot 3", Lines: "20 lines"},
	"Alice":                           {Name: "Alice", Lines: "15 lines"},
	"Thai Paradise":                   {Name: "Thai Paradise", Lines: "15 lines"},
	"Laura":                           {Name: "Laura", Lines: "15 lines"},
	"Pirate":                          {Name: "Pirate", Lines: "20 lines"},
	"Irish Luck":                      {Name: "Irish Luck", Lines: "30 lines"},
	"Fortune Panda":                   {Name: "Fortune Panda", Lines: "50 lines"},
	"Golden Lotus":                    {Name: "Golden Lotus", Lines: "25 lines"},
	"Big Prosperity":                  {Name: "Big Prosperity", Lines: "25 lines"},
	"Wong Choy":                       {Name: "Wong Choy", Lines: "25 lines"},
	"Striper Night":                   {Name: "Striper Night", Lines: "50 lines"},
	"Emperor Gate":                    {Name: "Emperor Gate", Lines: "50 lines"},
	"Japan Fortune":                   {Name: "Japan Fortune", Lines: "50 lines"},
	"Great China":                     {Name: "Great China", Lines: "50 lines"},
	"Age of the Gold":                 {Name: "Age of the Gold", Lines: "50 lines"},
	"Amazing Thailand":                {Name: "Amazing Thailand", Lines: "50 lines"},
	"Indian Myth":                     {Name: "Indian Myth", Lines: "50 lines"},
	"Golden Slot":                     {Name: "Golden Slot", Lines: "50 lines"},
	"African Wildlife":                {Name: "African Wildlife", Lines: "50 lines"},
	"Dragons":                         {Name: "Dragons", Lines: "25 lines"},
	"Boy Kings Treasure":              {Name: "Boy Kings Treasure", Lines: "20 lines"},
	"WildFox":                         {Name: "WildFox", Lines: "50 lines"},
	"Golden Slut":                     {Name: "Golden Slut", Lines: "25 lines"},
	"Nian Nian You yu":                {Name: "Nian Nian You yu", Lines: "40 lines"},
	"大财神":                             {Name: "大财神", Lines: "15 lines"},
}

// aliases maps normalized (lowercased, trimmed) portal labels to canonical
// names, covering typos and shorthand the portals are known to use.
var aliases = map[string]string{
	"iceland":        "Iceland",
	"dragon":         "Dragons",
	"dragons":        "Dragons",
	"boyking":        "Boy Kings Treasure",
	"boy king":       "Boy Kings Treasure",
	"boykinng":       "Boy Kings Treasure",
	"booking":        "Boy Kings Treasure",
	"girls":          "Striper Night",
	"goldenslut":     "Golden Slut",
	"wildfox":        "WildFox",
	"niannianyouyu":  "Nian Nian You yu",
	"panda":          "Great China",
	"luckypanda":     "Lucky Panda",
}
